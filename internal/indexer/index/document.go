package index

// Document is one corpus entry as the index sees it.
type Document struct {
	Index  int
	Text   string
	Length int
}

// TermCounts maps a normalised term to its occurrence count in a document.
type TermCounts map[string]int

// TermEntry pairs a term with the number of documents containing it.
type TermEntry struct {
	Term     string
	DocFreq  int
	DocIndex []int
}
