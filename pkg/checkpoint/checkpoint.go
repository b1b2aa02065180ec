// Package checkpoint keeps the progress of structure fetching, so an
// interrupted run can continue without repeating downloads.
//
// Processed, FetchedOK and Missing are shared by all datasets of a data
// directory, because the same protein can appear in several databases.
// Selected pairs and the row cursor belong to one dataset.
package checkpoint

// IDs is a set of protein identifiers. It is stored as a JSON object that
// maps an identifier to itself.
type IDs map[string]string

// Has checks if the set contains an identifier.
func (ids IDs) Has(id string) bool {
	_, ok := ids[id]
	return ok
}

// Selected keeps pairs where both proteins have structures. ColumnA and
// ColumnB are the column names of the source database.
type Selected struct {
	ColumnA string
	ColumnB string
	A       []string
	B       []string
}

// Len returns the number of selected pairs.
func (s *Selected) Len() int {
	return len(s.A)
}

// Pair returns the selected pair at the given index.
func (s *Selected) Pair(i int) (string, string) {
	return s.A[i], s.B[i]
}

// Cursor tells where row iteration of a dataset stopped. It is saved after
// all other checkpoint files.
type Cursor struct {
	// NextRow is the index of the first unprocessed row of the pair table.
	NextRow int `json:"next_row"`
	// Selected is the number of selected pairs at the moment of the save.
	Selected int `json:"selected"`
}

// Checkpoint is the complete state of the fetch-and-filter loop for one
// dataset.
type Checkpoint struct {
	Processed IDs
	FetchedOK IDs
	Missing   IDs
	Selected  *Selected
	Cursor    Cursor
}

// New creates an empty checkpoint for a dataset with the given column
// names.
func New(columnA, columnB string) *Checkpoint {
	return &Checkpoint{
		Processed: make(IDs),
		FetchedOK: make(IDs),
		Missing:   make(IDs),
		Selected:  &Selected{ColumnA: columnA, ColumnB: columnB},
	}
}

// MarkFetched records a successful download.
func (c *Checkpoint) MarkFetched(id string) {
	c.Processed[id] = id
	c.FetchedOK[id] = id
	delete(c.Missing, id)
}

// MarkMissing records a failed download. Missing identifiers are never
// requested again.
func (c *Checkpoint) MarkMissing(id string) {
	c.Processed[id] = id
	c.Missing[id] = id
	delete(c.FetchedOK, id)
}

// Select appends a pair to the selected pairs.
func (c *Checkpoint) Select(a, b string) {
	c.Selected.A = append(c.Selected.A, a)
	c.Selected.B = append(c.Selected.B, b)
}

// Advance moves the cursor past a row.
func (c *Checkpoint) Advance(row int) {
	c.Cursor.NextRow = row + 1
	c.Cursor.Selected = c.Selected.Len()
}

// ApplyCursor drops selected pairs that were saved after the cursor. It
// happens when a run stopped between saving selected pairs and saving the
// cursor. These pairs are selected again when their rows are revisited.
func (c *Checkpoint) ApplyCursor() error {
	n := c.Cursor.Selected
	if n > c.Selected.Len() {
		return InvariantError(
			"cursor refers to %d selected pairs, only %d are saved",
			n, c.Selected.Len(),
		)
	}
	c.Selected.A = c.Selected.A[:n]
	c.Selected.B = c.Selected.B[:n]
	return nil
}

// Verify checks relations between checkpoint sets.
func (c *Checkpoint) Verify() error {
	if len(c.Selected.A) != len(c.Selected.B) {
		return InvariantError(
			"selected columns have different lengths: %d and %d",
			len(c.Selected.A), len(c.Selected.B),
		)
	}
	for id := range c.FetchedOK {
		if c.Missing.Has(id) {
			return InvariantError("%s is both fetched and missing", id)
		}
		if !c.Processed.Has(id) {
			return InvariantError("%s is fetched but not processed", id)
		}
	}
	for id := range c.Missing {
		if !c.Processed.Has(id) {
			return InvariantError("%s is missing but not processed", id)
		}
	}
	for i := range c.Selected.A {
		a, b := c.Selected.Pair(i)
		if !c.FetchedOK.Has(a) || !c.FetchedOK.Has(b) {
			return InvariantError(
				"selected pair %s, %s has no fetched structure", a, b,
			)
		}
	}
	return nil
}
