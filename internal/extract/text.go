package extract

import "strings"

func extractText(data []byte) (*Result, error) {
	return &Result{Text: strings.TrimSpace(string(data))}, nil
}
