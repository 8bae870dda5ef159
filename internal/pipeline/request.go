package pipeline

import "strings"

// Request carries the validated inputs for a single ingestion run. Immutable
// once constructed.
type Request struct {
	Bucket    string
	SourceURL string
	SheetName string
}

// NewRequest trims the raw arguments (surrounding quotes, then whitespace)
// and rejects the run when any of them ends up empty.
func NewRequest(bucket, sourceURL, sheetName string) (Request, error) {
	req := Request{
		Bucket:    trimArg(bucket),
		SourceURL: trimArg(sourceURL),
		SheetName: trimArg(sheetName),
	}

	if req.Bucket == "" || req.SourceURL == "" || req.SheetName == "" {
		return Request{}, fail(KindInvalidArgument,
			"bucket, url and sheet name are all required (got bucket=%q url=%q sheet=%q)",
			req.Bucket, req.SourceURL, req.SheetName)
	}

	return req, nil
}

func trimArg(s string) string {
	return strings.TrimSpace(strings.Trim(s, "'"))
}
