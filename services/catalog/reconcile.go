package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"zenflow/models"
)

// Sentinel values substituted when a foreign key does not resolve, so one
// dangling reference never aborts a reconciliation pass.
const (
	UnknownTypeName    = "Unknown Type"
	UnknownTeacherName = "Unknown Teacher"
)

// DateKey turns a "YYYY-MM-DD" string into a comparable YYYYMMDD integer by
// stripping separators. Comparing these integers avoids the off-by-one
// errors time.Parse plus timezones invite around midnight.
func DateKey(date string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(date, "-", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// TodayKey computes the YYYYMMDD integer for t from its calendar components
// only, never from the underlying instant.
func TodayKey(t time.Time) int {
	year, month, day := t.Date()
	return year*10000 + int(month)*100 + day
}

// Reconcile converts the raw record arrays into a cross-referenced snapshot:
// position-derived ids, the future-window filter on instances, lookup maps,
// and per-class embedding of type, teacher and sorted future instances.
// It is a pure function of its inputs; the returned warnings describe
// records that were dropped and are the caller's to log.
func Reconcile(raw models.RawBundle, today int) (*Snapshot, []string) {
	var warnings []string

	// Ids equal the record's position in the full array, so deleted (nil)
	// entries still consume an id and references from other arrays hold.
	classTypes := make([]models.ClassType, 0, len(raw.ClassTypes))
	for i, rt := range raw.ClassTypes {
		if rt == nil {
			continue
		}
		classTypes = append(classTypes, models.ClassType{
			ID:          i,
			Name:        rt.Name,
			Description: rt.Description,
		})
	}

	teachers := make([]models.Teacher, 0, len(raw.Teachers))
	for i, rt := range raw.Teachers {
		if rt == nil {
			continue
		}
		teachers = append(teachers, models.Teacher{
			ID:        i,
			Name:      rt.Name,
			BasicInfo: rt.BasicInfo,
		})
	}

	teacherByID := make(map[int]models.Teacher, len(teachers))
	for _, t := range teachers {
		teacherByID[t.ID] = t
	}
	classTypeByID := make(map[int]models.ClassType, len(classTypes))
	for _, ct := range classTypes {
		classTypeByID[ct.ID] = ct
	}

	// Keep only instances on or after today. A malformed date drops the
	// instance with a warning; it never fails the pass.
	futureInstances := make([]models.ClassInstance, 0, len(raw.ClassInstances))
	for i, ri := range raw.ClassInstances {
		if ri == nil {
			continue
		}
		key, ok := DateKey(ri.Date)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("instance %d: unparseable date %q", i, ri.Date))
			continue
		}
		if key < today {
			continue
		}
		teacher, ok := teacherByID[ri.TeacherID]
		if !ok {
			teacher = models.Teacher{ID: ri.TeacherID, Name: UnknownTeacherName}
		}
		futureInstances = append(futureInstances, models.ClassInstance{
			ID:                 i,
			ClassID:            ri.ClassID,
			TeacherID:          ri.TeacherID,
			Date:               ri.Date,
			AdditionalComments: ri.AdditionalComments,
			Teacher:            teacher,
		})
	}

	instanceByID := make(map[int]models.ClassInstance, len(futureInstances))
	for _, inst := range futureInstances {
		instanceByID[inst.ID] = inst
	}

	classes := make([]models.Class, 0, len(raw.Classes))
	for i, rc := range raw.Classes {
		if rc == nil {
			continue
		}
		classType, ok := classTypeByID[rc.ClassTypeID]
		if !ok {
			classType = models.ClassType{ID: rc.ClassTypeID, Name: UnknownTypeName}
		}

		instances := make([]models.ClassInstance, 0)
		for _, inst := range futureInstances {
			if inst.ClassID == i {
				instances = append(instances, inst)
			}
		}
		sort.SliceStable(instances, func(a, b int) bool {
			keyA, _ := DateKey(instances[a].Date)
			keyB, _ := DateKey(instances[b].Date)
			return keyA < keyB
		})

		daysOfWeek := []string(rc.DaysOfWeek)
		if daysOfWeek == nil {
			daysOfWeek = []string{}
		}

		classes = append(classes, models.Class{
			ID:          i,
			Description: rc.Description,
			Level:       rc.Level,
			Price:       rc.Price,
			Duration:    rc.Duration,
			Room:        rc.Room,
			Time:        rc.Time,
			DaysOfWeek:  daysOfWeek,
			Capacity:    rc.Capacity,
			ClassTypeID: rc.ClassTypeID,
			ClassType:   classType,
			Instances:   instances,
		})
	}

	classByID := make(map[int]models.Class, len(classes))
	for _, c := range classes {
		classByID[c.ID] = c
	}

	return &Snapshot{
		Classes:       classes,
		ClassByID:     classByID,
		InstanceByID:  instanceByID,
		TeacherByID:   teacherByID,
		ClassTypeByID: classTypeByID,
		Today:         today,
	}, warnings
}
