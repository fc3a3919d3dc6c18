package mix

// File is the content-mix YAML document:
//
//	total: 15
//	categories:
//	  - label: Story+Lesson
//	    description: Personal story + lesson
//	    range: 3-4
//	  - label: Framework
//	    description: Process breakdowns
//	    min: 3
//	    max: 4
type File struct {
	// Total is optional; when set it must equal the initial idea count.
	Total      int        `yaml:"total"`
	Categories []Category `yaml:"categories"`
}

// Category accepts either a "range" string ("3-4" or "2") or explicit
// min/max values.
type Category struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Range       string `yaml:"range"`
	Min         *int   `yaml:"min"`
	Max         *int   `yaml:"max"`
}
