package domain

// Section identifies the dining area a table belongs to.
type Section string

const (
	SectionMain    Section = "main"
	SectionTerrace Section = "terrace"
)

// Table is a physical seating resource. The layout is fixed for the
// deployment: table state is never stored on it, occupancy is always derived
// from the active reservation set.
type Table struct {
	Number   int
	Capacity int
	Section  Section
}

const (
	// TableCount is the number of physical tables in the room.
	TableCount = 31
	// TableCapacity is the per-table seat count for this deployment.
	TableCapacity = 2
)

// Layout returns the full fixed registry of tables, numbered 1..TableCount.
func Layout() []Table {
	tables := make([]Table, 0, TableCount)
	for number := 1; number <= TableCount; number++ {
		tables = append(tables, Table{
			Number:   number,
			Capacity: TableCapacity,
			Section:  SectionMain,
		})
	}
	return tables
}

// LookupTable returns the table with the given number from the fixed layout.
func LookupTable(number int) (Table, bool) {
	if number < 1 || number > TableCount {
		return Table{}, false
	}
	return Table{Number: number, Capacity: TableCapacity, Section: SectionMain}, true
}
