package models

// RawBooking is a booking document as stored in the backend. Timestamps are
// server-assigned epoch milliseconds; zero means the field was never written.
type RawBooking struct {
	ID                 string `bson:"id" json:"id"`
	UserEmail          string `bson:"userEmail" json:"userEmail"`
	BookedInstanceIDs  []int  `bson:"bookedInstanceIds" json:"bookedInstanceIds"`
	BookingTimestampMs int64  `bson:"bookingTimestamp" json:"bookingTimestamp"`
}

// BookingRecord is the acknowledged result of a submission. It is written
// once and never mutated.
type BookingRecord struct {
	ID                 string `json:"id"`
	UserEmail          string `json:"userEmail"`
	BookedInstanceIDs  []int  `json:"bookedInstanceIds"`
	BookingTimestampMs int64  `json:"bookingTimestamp,omitempty"`
}

// BookedInstanceView is one stored instance id resolved back into
// displayable detail through the current catalog snapshot.
type BookedInstanceView struct {
	InstanceID  int     `json:"instanceId"`
	ClassName   string  `json:"className"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	TeacherName string  `json:"teacherName"`
	Price       float64 `json:"price"`
}

// EnrichedBooking is a stored booking whose instance ids resolved against
// the current snapshot. Ids that no longer resolve are absent; a booking
// that enriches to zero instances is never surfaced.
type EnrichedBooking struct {
	BookingID          string               `json:"bookingId"`
	BookingTimestampMs int64                `json:"bookingTimestamp"`
	Instances          []BookedInstanceView `json:"instances"`
}
