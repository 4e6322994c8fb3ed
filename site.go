package sphinxdex

// Framework identifies a documentation framework.
type Framework string

// Frameworks recognized by FrameworkDetector. Only Sphinx sites carry a
// searchindex.js file; the others are reported so the user gets a useful error.
const (
	FrameworkUnknown    Framework = ""
	FrameworkSphinx     Framework = "sphinx"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkDocusaurus Framework = "docusaurus"
)

// FrameworkDetector identifies documentation frameworks from HTML.
type FrameworkDetector interface {
	// Detect analyzes HTML and returns the identified framework.
	// Returns FrameworkUnknown if the framework cannot be determined.
	Detect(html string) Framework
}

// Site describes where a Sphinx build keeps its search index.
type Site struct {
	// Root is the documentation root URL, ending in "/".
	Root string `json:"root"`

	// IndexURL is the URL of searchindex.js.
	IndexURL string `json:"indexUrl"`

	// OptionsURL is the URL of documentation_options.js, if referenced.
	OptionsURL string `json:"optionsUrl,omitempty"`

	FileSuffix string `json:"fileSuffix"`
	Builder    string `json:"builder,omitempty"`
}

// Locator finds the search index of a Sphinx site from one of its pages.
type Locator interface {
	// Locate inspects the HTML of pageURL.
	// Returns EINVALID if the page is not part of a Sphinx build.
	Locate(html, pageURL string) (*Site, error)

	// ApplyOptions updates site with the settings found in the content of
	// its documentation_options.js file.
	ApplyOptions(site *Site, js string)
}
