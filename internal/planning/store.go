package planning

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dverbeek/planboard/internal/models"
)

// BucketKey addresses the ordered list of assignments for one employee on
// one calendar date. A structured key instead of string concatenation, so
// employee IDs containing separators can never collide.
type BucketKey struct {
	UserID string
	Date   string
}

type pendingKind int

const (
	pendingCreate pendingKind = iota
	pendingDelete
)

// pendingOp records an optimistic mutation whose backend write has not been
// confirmed yet. A reload re-applies these onto the fresh snapshot so an
// in-flight mutation is never silently dropped.
type pendingOp struct {
	kind       pendingKind
	assignment models.Assignment
	index      int
	seq        uint64
}

// Store is the in-memory assignment map for the planning view. It owns the
// bucket map plus the project/employee catalogs and is safe for concurrent
// use; the grid renderer only ever sees fully loaded snapshots.
type Store struct {
	backend Backend

	mu         sync.Mutex
	buckets    map[BucketKey][]models.Assignment
	projects   map[string]models.Project
	employees  map[string]models.User
	pending    map[string]pendingOp
	loading    bool
	generation uint64
	seq        uint64
	rangeFrom  string
	rangeTo    string
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend:   backend,
		buckets:   make(map[BucketKey][]models.Assignment),
		projects:  make(map[string]models.Project),
		employees: make(map[string]models.User),
		pending:   make(map[string]pendingOp),
	}
}

// Loading reports whether a bulk load is in flight. Renderers show a loading
// state instead of a stale or empty grid while this is true.
func (store *Store) Loading() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.loading
}

// Load bulk-fetches all assignments for the given employees inside the
// inclusive [start, end] interval and atomically replaces the bucket map.
// If a newer Load supersedes this one before it resolves, its result is
// discarded and the store keeps the most recently requested range's data.
// On failure the previous contents stay intact and loading is cleared.
func (store *Store) Load(ctx context.Context, userIDs []string, start time.Time, end time.Time) error {
	store.mu.Lock()
	store.loading = true
	store.generation++
	generation := store.generation
	from := start.Format(isoDate)
	to := end.Format(isoDate)
	store.mu.Unlock()

	fetched, err := store.backend.FetchAssignments(ctx, userIDs, from, to)

	store.mu.Lock()
	defer store.mu.Unlock()

	if generation != store.generation {
		// Superseded by a newer load; that load owns the loading flag.
		return nil
	}
	store.loading = false

	if err != nil {
		return classify(fmt.Errorf("loading assignments: %w", err))
	}

	buckets := make(map[BucketKey][]models.Assignment, len(fetched))
	for _, assignment := range fetched {
		key := BucketKey{UserID: assignment.UserID, Date: assignment.Date}
		buckets[key] = append(buckets[key], assignment)
	}

	store.reapplyPending(buckets, from, to)

	store.buckets = buckets
	store.rangeFrom = from
	store.rangeTo = to
	return nil
}

// reapplyPending replays in-flight optimistic mutations onto a freshly
// fetched bucket map, in the order they were issued.
func (store *Store) reapplyPending(buckets map[BucketKey][]models.Assignment, from string, to string) {
	ops := make([]pendingOp, 0, len(store.pending))
	for _, op := range store.pending {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].seq < ops[j].seq })

	for _, op := range ops {
		key := BucketKey{UserID: op.assignment.UserID, Date: op.assignment.Date}
		switch op.kind {
		case pendingCreate:
			if op.assignment.Date < from || op.assignment.Date > to {
				continue
			}
			if indexOf(buckets[key], op.assignment.ID) == -1 {
				buckets[key] = append(buckets[key], op.assignment)
			}
		case pendingDelete:
			if index := indexOf(buckets[key], op.assignment.ID); index != -1 {
				buckets[key] = removeAt(buckets[key], index)
				if len(buckets[key]) == 0 {
					delete(buckets, key)
				}
			}
		}
	}
}

// Get returns the bucket's assignments in insertion order, or an empty list
// when the bucket is absent. The returned slice is a copy.
func (store *Store) Get(userID string, isoDate string) []models.Assignment {
	store.mu.Lock()
	defer store.mu.Unlock()

	bucket := store.buckets[BucketKey{UserID: userID, Date: isoDate}]
	if len(bucket) == 0 {
		return nil
	}
	out := make([]models.Assignment, len(bucket))
	copy(out, bucket)
	return out
}

// Has reports bucket presence without copying. Empty buckets are removed
// eagerly, so presence alone means the cell has content.
func (store *Store) Has(userID string, isoDate string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	_, ok := store.buckets[BucketKey{UserID: userID, Date: isoDate}]
	return ok
}

// SetCatalog replaces the project and employee catalogs the grid and the
// mutation protocol validate against.
func (store *Store) SetCatalog(projects []models.Project, employees []models.User) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.projects = make(map[string]models.Project, len(projects))
	for _, project := range projects {
		store.projects[project.ID] = project
	}
	store.employees = make(map[string]models.User, len(employees))
	for _, employee := range employees {
		store.employees[employee.ID] = employee
	}
}

// Project looks up catalog metadata at render time. Vehicle and start-time
// edits therefore show up on every assignment referencing the project, not
// just new ones.
func (store *Store) Project(id string) (models.Project, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	project, ok := store.projects[id]
	return project, ok
}

func (store *Store) Employee(id string) (models.User, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	employee, ok := store.employees[id]
	return employee, ok
}

func (store *Store) putProject(project models.Project) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.projects[project.ID] = project
}

// appendOptimistic adds an unconfirmed assignment to the tail of its bucket
// and registers it as a pending create.
func (store *Store) appendOptimistic(assignment models.Assignment) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := BucketKey{UserID: assignment.UserID, Date: assignment.Date}
	store.buckets[key] = append(store.buckets[key], assignment)
	store.seq++
	store.pending[assignment.ID] = pendingOp{kind: pendingCreate, assignment: assignment, seq: store.seq}
}

// confirmCreate swaps the optimistic placeholder for the backend-confirmed
// record, keeping its position in the bucket.
func (store *Store) confirmCreate(placeholderID string, confirmed models.Assignment) {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.pending, placeholderID)

	key := BucketKey{UserID: confirmed.UserID, Date: confirmed.Date}
	if index := indexOf(store.buckets[key], placeholderID); index != -1 {
		store.buckets[key][index] = confirmed
	}
}

// dropOptimistic rolls back a pending create, restoring the bucket to its
// exact pre-call state.
func (store *Store) dropOptimistic(assignment models.Assignment) {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.pending, assignment.ID)

	key := BucketKey{UserID: assignment.UserID, Date: assignment.Date}
	if index := indexOf(store.buckets[key], assignment.ID); index != -1 {
		store.buckets[key] = removeAt(store.buckets[key], index)
		if len(store.buckets[key]) == 0 {
			delete(store.buckets, key)
		}
	}
}

// takeEntry optimistically removes the entry matching instanceID and records
// a pending delete. It reports the removed entry and whether it was present;
// taking an unknown id is a no-op.
func (store *Store) takeEntry(userID string, isoDate string, instanceID string) (models.Assignment, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := BucketKey{UserID: userID, Date: isoDate}
	index := indexOf(store.buckets[key], instanceID)
	if index == -1 {
		return models.Assignment{}, false
	}

	taken := store.buckets[key][index]
	store.buckets[key] = removeAt(store.buckets[key], index)
	if len(store.buckets[key]) == 0 {
		delete(store.buckets, key)
	}

	store.seq++
	store.pending[instanceID] = pendingOp{kind: pendingDelete, assignment: taken, index: index, seq: store.seq}
	return taken, true
}

// restoreEntry rolls back a pending delete, reinserting the entry at its
// original bucket position.
func (store *Store) restoreEntry(assignment models.Assignment) {
	store.mu.Lock()
	defer store.mu.Unlock()

	op, ok := store.pending[assignment.ID]
	delete(store.pending, assignment.ID)

	key := BucketKey{UserID: assignment.UserID, Date: assignment.Date}
	bucket := store.buckets[key]
	index := len(bucket)
	if ok && op.index < index {
		index = op.index
	}

	bucket = append(bucket, models.Assignment{})
	copy(bucket[index+1:], bucket[index:])
	bucket[index] = assignment
	store.buckets[key] = bucket
}

// settleDelete confirms a pending delete after the backend write resolves.
func (store *Store) settleDelete(instanceID string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.pending, instanceID)
}

func indexOf(bucket []models.Assignment, id string) int {
	for index, assignment := range bucket {
		if assignment.ID == id {
			return index
		}
	}
	return -1
}

func removeAt(bucket []models.Assignment, index int) []models.Assignment {
	out := make([]models.Assignment, 0, len(bucket)-1)
	out = append(out, bucket[:index]...)
	return append(out, bucket[index+1:]...)
}
