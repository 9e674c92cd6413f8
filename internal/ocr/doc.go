// Package ocr recognises single lines of text with Tesseract.
//
// Two backends exist behind the same Recognizer interface. Builds with cgo
// link libtesseract through gosseract/v2; builds without cgo run the
// tesseract executable and pass the image on stdin. Both read the same
// language data.
//
// # Prerequisites
//
// Tesseract and the language packs for every configured language must be
// installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-jpn tesseract-ocr-kor tesseract-ocr-chi-sim tesseract-ocr-chi-tra
//   - macOS: brew install tesseract tesseract-lang
//   - Windows: https://github.com/UB-Mannheim/tesseract/wiki
//
// Set TESSDATA_PREFIX when the traineddata files live outside the default
// location.
//
// # Error Handling
//
// Errors wrapping ErrEngineUnavailable mean the engine cannot run at all
// (missing library or binary, missing language data). Any other error
// concerns a single image and the caller may carry on.
package ocr
