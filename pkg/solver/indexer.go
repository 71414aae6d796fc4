package solver

// indexer interface is design to give a unique index to a combination of decision variable's attributes and vice versa
type indexer interface {
	// Returns a unique index (starting at 1) to a combination of decision variable's attributes
	Index(day, slot, subject uint64) uint64
	// Returns a combination of decision variable's attributes from a unique index
	Attributes(index uint64) (day, slot, subject uint64)
	// Number of distinct indices
	Variables() uint64
}

func newIndexer(days, slots, subjects uint64) indexer {
	return &indexerImplementation{
		days:     days,
		slots:    slots,
		subjects: subjects,
	}
}

type indexerImplementation struct {
	days     uint64
	slots    uint64
	subjects uint64
}

func (indexer *indexerImplementation) Index(day, slot, subject uint64) uint64 {
	return slot + indexer.slots*day + indexer.slots*indexer.days*subject + 1
}

func (indexer *indexerImplementation) Attributes(index uint64) (day, slot, subject uint64) {
	index = index - 1
	slot = index % indexer.slots
	index = index / indexer.slots

	day = index % indexer.days
	index = index / indexer.days

	subject = index % indexer.subjects

	return day, slot, subject
}

func (indexer *indexerImplementation) Variables() uint64 {
	return indexer.days * indexer.slots * indexer.subjects
}
