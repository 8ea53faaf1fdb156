package workflow

// Sections and pages known to the view.
const (
	SectionUpload   = "uploadResult"
	SectionAnalysis = "analysisResult"
	SectionMatch    = "matchResult"

	PageUpload   = "upload"
	PageAnalysis = "analysis"
	PageMatch    = "match"
)

// ViewHost displays results and switches the visible page.
type ViewHost interface {
	Render(section string, payload any) error
	Navigate(page string) error
}

type nopView struct{}

func (nopView) Render(string, any) error { return nil }
func (nopView) Navigate(string) error    { return nil }
