package engine

// Budget holds the two run-scoped counters bounding a batch: how many files
// may still be rewritten and how many failures may still be tolerated. Both
// only decrease, and only the orchestrator touches them.
type Budget struct {
	FilesLeft  int
	ErrorsLeft int
}

// SpendFile consumes one unit of the file-change quota. It returns false when
// the quota is exhausted and the run must stop after the save that spent it.
func (b *Budget) SpendFile() bool {
	b.FilesLeft--
	return b.FilesLeft > 0
}

// SpendError consumes one unit of the error-tolerance quota. It returns false
// when the quota is exhausted and the run must abort.
func (b *Budget) SpendError() bool {
	b.ErrorsLeft--
	return b.ErrorsLeft > 0
}
