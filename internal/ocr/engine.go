package ocr

import (
	"errors"
	"image"
	"os"
	"strings"
)

// ErrEngineUnavailable is returned when the Tesseract engine cannot run at
// all: the library or binary is missing, or language data cannot be loaded.
// Retrying does not help; the installation has to be fixed.
var ErrEngineUnavailable = errors.New("ocr engine not available")

// DefaultLanguages covers the scripts player nicknames are written in.
var DefaultLanguages = []string{"eng", "jpn", "kor", "chi_sim", "chi_tra"}

// Recognizer extracts text from an image.
//
// Implementations are not safe for concurrent use; the scanner owns one and
// calls it serially.
type Recognizer interface {
	// Recognize returns the text found in img, untrimmed.
	// Errors wrapping ErrEngineUnavailable mean no further call can succeed.
	Recognize(img image.Image) (string, error)

	// Close releases the engine.
	Close() error
}

// Config configures a Recognizer.
type Config struct {
	// Languages are Tesseract language codes, combined as "eng+jpn+...".
	Languages []string

	// TessdataPrefix is the directory holding *.traineddata files.
	// Empty uses Tesseract's default (or TESSDATA_PREFIX).
	TessdataPrefix string

	// SingleLine treats each image as one line of text (page segmentation
	// mode 7).
	SingleLine bool

	// Binary is the tesseract executable used by the CLI backend.
	Binary string
}

// DefaultConfig returns the configuration used for nickname regions.
func DefaultConfig() Config {
	return Config{
		Languages:      append([]string(nil), DefaultLanguages...),
		TessdataPrefix: os.Getenv("TESSDATA_PREFIX"),
		SingleLine:     true,
		Binary:         "tesseract",
	}
}

// ParseLanguages splits "eng+jpn" or "eng,jpn" into language codes.
func ParseLanguages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// EngineInfo describes the OCR backend.
type EngineInfo struct {
	Available bool     `json:"available"`
	Backend   string   `json:"backend"`
	Version   string   `json:"version,omitempty"`
	Languages []string `json:"languages"`
	Error     string   `json:"error,omitempty"`
}

// Probe runs r on a blank image to find out whether the engine can start.
// It returns nil or an error wrapping ErrEngineUnavailable; other failures
// on a blank image are not interesting and are ignored.
func Probe(r Recognizer) error {
	blank := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range blank.Pix {
		blank.Pix[i] = 0xFF
	}
	if _, err := r.Recognize(blank); errors.Is(err, ErrEngineUnavailable) {
		return err
	}
	return nil
}

// unavailableMarkers are messages Tesseract prints when it cannot load its
// language data.
var unavailableMarkers = []string{
	"Failed loading language",
	"Error opening data file",
	"Could not initialize tesseract",
	"TessBaseAPI",
}

func isUnavailableMessage(msg string) bool {
	for _, m := range unavailableMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
