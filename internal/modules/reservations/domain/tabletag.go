package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// The remote store schema has a single table-number column, so multi-table
// assignments are carried as a bracketed tag inside the free-text comments
// column, next to whatever note the staff already wrote there.
// Format: [Tables: 5, 6, 7]

var tableTagPattern = regexp.MustCompile(`\[Tables:\s*([0-9,\s]+)\]`)

// ParseTableTag extracts the table numbers encoded in the comments text.
// Returns nil when no tag is present.
func ParseTableTag(comments string) []int {
	match := tableTagPattern.FindStringSubmatch(comments)
	if match == nil {
		return nil
	}
	parts := strings.Split(match[1], ",")
	tables := make([]int, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))
	for _, part := range parts {
		number, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || number <= 0 {
			continue
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}
		tables = append(tables, number)
	}
	if len(tables) == 0 {
		return nil
	}
	return tables
}

// StripTableTag removes any table tag from the comments, leaving the staff
// note text untouched.
func StripTableTag(comments string) string {
	stripped := tableTagPattern.ReplaceAllString(comments, "")
	return strings.TrimSpace(stripped)
}

// AppendTableTag replaces any previous tag and appends the new one after the
// existing note text. Lists with fewer than two tables carry no tag: the
// primary table column already holds the single assignment.
func AppendTableTag(comments string, tables []int) string {
	note := StripTableTag(comments)
	if len(tables) < 2 {
		return note
	}
	rendered := make([]string, 0, len(tables))
	for _, number := range tables {
		rendered = append(rendered, strconv.Itoa(number))
	}
	tag := "[Tables: " + strings.Join(rendered, ", ") + "]"
	if note == "" {
		return tag
	}
	return note + " " + tag
}

// AssignedTables merges the primary table column with the comment tag into
// one deduplicated ascending list.
func (r Reservation) AssignedTables() []int {
	seen := make(map[int]struct{}, 4)
	tables := make([]int, 0, 4)
	if r.TableAssignee != nil && *r.TableAssignee > 0 {
		seen[*r.TableAssignee] = struct{}{}
		tables = append(tables, *r.TableAssignee)
	}
	for _, number := range ParseTableTag(r.Comments) {
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}
		tables = append(tables, number)
	}
	sort.Ints(tables)
	return tables
}

// OccupiesTable reports whether the reservation's assignment includes the
// given table number, either as primary or inside the tag.
func (r Reservation) OccupiesTable(number int) bool {
	if r.TableAssignee != nil && *r.TableAssignee == number {
		return true
	}
	for _, assigned := range ParseTableTag(r.Comments) {
		if assigned == number {
			return true
		}
	}
	return false
}
