package model

// Sentinel values recorded in place of a profile URL.
const (
	NotFound = "Not found"
	Error    = "Error"
)

// ResultStatus classifies a Result for logging and summaries.
type ResultStatus string

const (
	ResultStatusFound    ResultStatus = "found"
	ResultStatusNotFound ResultStatus = "not_found"
	ResultStatusError    ResultStatus = "error"
)

// Company is one company name parsed from the input file.
type Company struct {
	Name string `json:"name" yaml:"name"`
}

// Result is one output row: the company name plus its LinkedIn profile URL
// or one of the sentinel values.
type Result struct {
	Name     string `json:"name" yaml:"name"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
}

// Status reports whether the result holds a URL, NotFound, or Error.
func (r Result) Status() ResultStatus {
	switch r.LinkedIn {
	case Error:
		return ResultStatusError
	case NotFound, "":
		return ResultStatusNotFound
	default:
		return ResultStatusFound
	}
}

// Tally counts results per status.
type Tally struct {
	Found    int `json:"found"`
	NotFound int `json:"not_found"`
	Errors   int `json:"errors"`
}

// CountResults tallies a slice of results by status.
func CountResults(results []Result) Tally {
	var t Tally
	for _, r := range results {
		switch r.Status() {
		case ResultStatusFound:
			t.Found++
		case ResultStatusNotFound:
			t.NotFound++
		case ResultStatusError:
			t.Errors++
		}
	}
	return t
}
