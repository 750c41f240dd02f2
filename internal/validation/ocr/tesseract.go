package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// TesseractEngine shells out to the tesseract binary in TSV mode, which yields
// per-word confidences alongside the text. Language is tunable per deployment
// (French documents by default).
type TesseractEngine struct {
	binary string
	lang   string
}

// NewTesseractEngine builds an engine for the given language code ("fra",
// "eng", ...).
func NewTesseractEngine(lang string) *TesseractEngine {
	if lang == "" {
		lang = "fra"
	}
	return &TesseractEngine{binary: "tesseract", lang: lang}
}

func (t *TesseractEngine) Extract(ctx context.Context, image []byte) (*Result, error) {
	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.lang, "tsv")
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	return parseTSV(stdout.String()), nil
}

// parseTSV converts tesseract's TSV output into a Result. Word rows are level
// 5; the confidence column is -1 for structural rows and [0,100] for words.
func parseTSV(output string) *Result {
	var (
		words []Word
		texts []string
		sum   float64
	)

	for _, line := range strings.Split(output, "\n") {
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		if cols[0] != "5" { // word level
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}
		words = append(words, Word{Text: text, Confidence: conf})
		texts = append(texts, text)
		sum += conf
	}

	result := &Result{
		Text:  strings.Join(texts, " "),
		Words: words,
	}
	if len(words) > 0 {
		result.Confidence = sum / float64(len(words))
	}
	return result
}
