package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RawBundle is the studio dataset exactly as the backend stores it: four
// denormalized arrays plus the bookings node. Arrays may be absent or sparse
// (nil entries where records were deleted), which downstream processing must
// tolerate.
type RawBundle struct {
	Classes        []*RawClass         `bson:"classes" json:"Classes"`
	ClassInstances []*RawClassInstance `bson:"classInstances" json:"ClassInstances"`
	ClassTypes     []*RawClassType     `bson:"classTypes" json:"ClassTypes"`
	Teachers       []*RawTeacher       `bson:"teachers" json:"Teachers"`
}

// RawClass is one recurring class record. It carries no identifier of its
// own; its identity is its position in the Classes array.
type RawClass struct {
	Description string     `bson:"description" json:"description"`
	Level       string     `bson:"level" json:"level"`
	Price       float64    `bson:"price" json:"price"`
	Duration    int        `bson:"duration" json:"duration"` // minutes
	Room        string     `bson:"room" json:"room"`
	Time        string     `bson:"time" json:"time"` // "HH:MM"
	DaysOfWeek  StringList `bson:"daysOfWeek" json:"daysOfWeek"`
	Capacity    int        `bson:"capacity" json:"capacity"`
	ClassTypeID int        `bson:"classTypeId" json:"classTypeId"`
}

// RawClassInstance is one concrete occurrence of a class on a calendar date.
type RawClassInstance struct {
	ClassID            int    `bson:"classId" json:"classId"`
	TeacherID          int    `bson:"teacherId" json:"teacherId"`
	Date               string `bson:"date" json:"date"` // "YYYY-MM-DD"
	AdditionalComments string `bson:"additionalComments" json:"additionalComments"`
}

// RawClassType is a lookup-only record.
type RawClassType struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
}

// RawTeacher is a lookup-only record.
type RawTeacher struct {
	Name      string `bson:"name" json:"name"`
	BasicInfo string `bson:"basicInfo" json:"basicInfo"`
}

// StringList decodes an array of strings, degrading to an empty list when
// the backend stored a scalar or object where an array belongs. The same
// tolerance applies on both the JSON and BSON paths.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		*s = StringList{}
		return nil
	}
	*s = items
	return nil
}

func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var items []string
	raw := bson.RawValue{Type: t, Value: data}
	if err := raw.Unmarshal(&items); err != nil {
		*s = StringList{}
		return nil
	}
	*s = items
	return nil
}

// ClassType is a class-type record with its position-derived id attached.
type ClassType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Teacher is a teacher record with its position-derived id attached.
type Teacher struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	BasicInfo string `json:"basicInfo"`
}

// ClassInstance is a dated occurrence with its position-derived id and the
// teacher already resolved (sentinel when the reference dangles).
type ClassInstance struct {
	ID                 int     `json:"id"`
	ClassID            int     `json:"classId"`
	TeacherID          int     `json:"teacherId"`
	Date               string  `json:"date"`
	AdditionalComments string  `json:"additionalComments,omitempty"`
	Teacher            Teacher `json:"teacher"`
}

// Class is a fully reconciled class: the raw record plus its id, its
// resolved class type and its future instances sorted by date.
type Class struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Level       string          `json:"level"`
	Price       float64         `json:"price"`
	Duration    int             `json:"duration"`
	Room        string          `json:"room"`
	Time        string          `json:"time"`
	DaysOfWeek  []string        `json:"daysOfWeek"`
	Capacity    int             `json:"capacity"`
	ClassTypeID int             `json:"classTypeId"`
	ClassType   ClassType       `json:"classType"`
	Instances   []ClassInstance `json:"instances"`
}
