package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/er-advisor/internal/config"
	"github.com/ironsheep/er-advisor/internal/imaging"
	"github.com/ironsheep/er-advisor/internal/scanner"
)

var (
	// overlay flags
	overlayScene   string
	overlayImage   string
	overlayDisplay int
	overlayOut     string
)

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "Draw the configured regions onto a screenshot",
	Long: `Capture the screen (or load a saved screenshot), outline every region
of a scene with its label and save the result as an image. Use it to check
that region coordinates still line up after a resolution or UI change.
The brightness of each region is printed to help tune ERADV_THRESHOLD.

Examples:
  er-advisor overlay --scene loading --out regions.png
  er-advisor overlay --image captures/loading.png --out regions.png`,
	RunE: runOverlay,
}

func init() {
	overlayCmd.Flags().StringVarP(&overlayScene, "scene", "s", "",
		"Scene to draw (default: ERADV_SCAN_SCENE)")
	overlayCmd.Flags().StringVarP(&overlayImage, "image", "i", "",
		"Use a saved screenshot instead of the display")
	overlayCmd.Flags().IntVar(&overlayDisplay, "display", 0,
		"Display index to capture")
	overlayCmd.Flags().StringVarP(&overlayOut, "out", "o", "regions.png",
		"Output image path (.png or .jpg, - for PNG on stdout)")
}

func runOverlay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	return drawOverlay(cfg, scanner.LoadScenes(cfg.ConfigDir, scanner.DefaultSources, logger), cmd)
}

func drawOverlay(cfg *config.Config, scenes scanner.SceneMap, cmd *cobra.Command) error {
	scene := overlayScene
	if scene == "" {
		scene = cfg.ScanScene
	}

	regions, err := scenes.Regions(scene)
	if err != nil {
		return err
	}

	frame, err := newCapturer(overlayImage, overlayDisplay).Capture()
	if err != nil {
		return err
	}

	out := imaging.DrawRegions(frame, regions)
	w := cmd.OutOrStdout()

	if overlayOut == "-" {
		// The image owns stdout; the report goes to stderr.
		if err := imaging.EncodePNG(w, out); err != nil {
			return err
		}
		w = cmd.ErrOrStderr()
	} else if err := imaging.Save(out, overlayOut); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}

	fmt.Fprintf(w, "%d regions drawn to %s\n", len(regions), overlayOut)
	for _, lr := range regions {
		lv := imaging.RegionLevels(frame, lr.Region, uint8(cfg.Threshold))
		fmt.Fprintf(w, "  %-20s luma %3d-%3d mean %5.1f  above threshold %5.1f%%\n",
			lr.Label, lv.Min, lv.Max, lv.Mean, lv.Lit)
	}
	return nil
}
