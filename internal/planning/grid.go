package planning

import (
	"sync"

	"github.com/dverbeek/planboard/internal/models"
)

type ViewMode string

const (
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

const unknownProjectTitle = "Unknown project"

// palette of cell colors, assigned to projects by first-seen order.
var paletteColors = []string{
	"#2563eb", "#16a34a", "#d97706", "#dc2626", "#7c3aed",
	"#0891b2", "#db2777", "#65a30d", "#ea580c", "#475569",
}

// Palette hands out a stable color per project for the lifetime of the
// session. Colors repeat once the fixed set is exhausted.
type Palette struct {
	mu       sync.Mutex
	assigned map[string]string
}

func NewPalette() *Palette {
	return &Palette{assigned: make(map[string]string)}
}

func (palette *Palette) ColorFor(projectID string) string {
	palette.mu.Lock()
	defer palette.mu.Unlock()

	if color, ok := palette.assigned[projectID]; ok {
		return color
	}
	color := paletteColors[len(palette.assigned)%len(paletteColors)]
	palette.assigned[projectID] = color
	return color
}

// CellAssignment is one assignment as displayed in a cell. Title, color,
// vehicles and start time are resolved from the project catalog at build
// time, so project metadata edits are retroactive across the grid.
type CellAssignment struct {
	InstanceID string   `json:"instance_id"`
	ProjectID  string   `json:"project_id"`
	Title      string   `json:"title"`
	Color      string   `json:"color"`
	VehicleIDs []string `json:"vehicle_ids,omitempty"`
	StartTime  *string  `json:"start_time,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// AbsenceContext marks the employee as absent for the cell's day. It is
// display-only; the mutation protocol never touches absences.
type AbsenceContext struct {
	Type  models.AbsenceType `json:"type"`
	Notes string             `json:"notes,omitempty"`
}

// Cell is one grid position. Padding cells in month view have a nil Day and
// are disabled; they are never looked up against the store.
type Cell struct {
	Day         *Day             `json:"day"`
	Assignments []CellAssignment `json:"assignments"`
	Absence     *AbsenceContext  `json:"absence,omitempty"`
	CanEdit     bool             `json:"can_edit"`
	Disabled    bool             `json:"disabled"`
}

type Row struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Cells        []Cell `json:"cells"`
}

// Grid is the 2-D projection the renderer hands to clients. Week mode:
// one row per employee, one column per day. Month mode: one row per
// calendar week for a single employee.
type Grid struct {
	Mode        ViewMode `json:"mode"`
	Loading     bool     `json:"loading"`
	Days        []Day    `json:"days,omitempty"`
	Rows        []Row    `json:"rows"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// BuildWeekGrid projects employees x days into cells. Pure: it only reads
// the store and never fetches.
func BuildWeekGrid(employees []models.User, days []Day, store *Store, palette *Palette, canEdit bool) Grid {
	grid := Grid{Mode: ViewWeek, Loading: store.Loading(), Days: days}

	for _, employee := range employees {
		row := Row{EmployeeID: employee.ID, EmployeeName: employee.Name}
		for index := range days {
			day := days[index]
			row.Cells = append(row.Cells, buildCell(&day, employee.ID, store, palette, canEdit))
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

// BuildMonthGrid projects one employee's month into calendar-week rows.
// Month view requires a selected employee; without one an explicit
// placeholder grid is returned rather than an empty one.
func BuildMonthGrid(employee *models.User, weeks [][]*Day, store *Store, palette *Palette, canEdit bool) Grid {
	if employee == nil {
		return Grid{Mode: ViewMonth, Placeholder: "Select an employee to view their month"}
	}

	grid := Grid{Mode: ViewMonth, Loading: store.Loading()}
	for _, week := range weeks {
		row := Row{EmployeeID: employee.ID, EmployeeName: employee.Name}
		for _, day := range week {
			if day == nil {
				row.Cells = append(row.Cells, Cell{Disabled: true})
				continue
			}
			row.Cells = append(row.Cells, buildCell(day, employee.ID, store, palette, canEdit))
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

// ApplyAbsences annotates matching cells with absence context. Padding cells
// have no day and are skipped.
func (grid *Grid) ApplyAbsences(absences []models.Absence) {
	if len(absences) == 0 {
		return
	}

	byCell := make(map[BucketKey]models.Absence, len(absences))
	for _, absence := range absences {
		byCell[BucketKey{UserID: absence.UserID, Date: absence.Date}] = absence
	}

	for rowIndex := range grid.Rows {
		row := &grid.Rows[rowIndex]
		for cellIndex := range row.Cells {
			cell := &row.Cells[cellIndex]
			if cell.Day == nil {
				continue
			}
			if absence, ok := byCell[BucketKey{UserID: row.EmployeeID, Date: cell.Day.ISO}]; ok {
				cell.Absence = &AbsenceContext{Type: absence.Type, Notes: absence.Notes}
			}
		}
	}
}

func buildCell(day *Day, employeeID string, store *Store, palette *Palette, canEdit bool) Cell {
	cell := Cell{Day: day, CanEdit: canEdit}

	for _, assignment := range store.Get(employeeID, day.ISO) {
		display := CellAssignment{
			InstanceID: assignment.ID,
			ProjectID:  assignment.ProjectID,
			Title:      unknownProjectTitle,
			Color:      palette.ColorFor(assignment.ProjectID),
			Notes:      assignment.Notes,
		}
		if project, ok := store.Project(assignment.ProjectID); ok {
			display.Title = project.Name
			display.VehicleIDs = project.VehicleIDs
			display.StartTime = project.DefaultStartTime
		}
		cell.Assignments = append(cell.Assignments, display)
	}
	return cell
}
