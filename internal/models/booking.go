package models

// Booking is a confirmed reservation. Train name, fare and departure are
// copies taken at booking time and are not re-checked against the catalog.
type Booking struct {
	PNR       string `json:"pnr"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	TrainNo   string `json:"train_no"`
	TrainName string `json:"train_name"`
	ClassType string `json:"class_type"`
	SeatNo    int    `json:"seat_no"`
	Fare      int    `json:"fare"`
	Departure string `json:"departure"`
}

// BookingID is the display identifier derived from the PNR.
func (b Booking) BookingID() string {
	return "BK-" + b.PNR
}

// BookingRecord is the postgres row for one ledger entry. Position keeps
// ledger order across a full rewrite.
type BookingRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Position  int    `gorm:"not null;index"`
	PNR       string `gorm:"column:pnr;type:varchar(6);not null;index"`
	Name      string `gorm:"not null"`
	Age       int    `gorm:"not null"`
	TrainNo   string `gorm:"not null"`
	TrainName string `gorm:"not null"`
	ClassType string `gorm:"type:varchar(8);not null"`
	SeatNo    int    `gorm:"not null"`
	Fare      int    `gorm:"not null"`
	Departure string `gorm:"not null"`
}

func (BookingRecord) TableName() string {
	return "bookings"
}

func ToBookingRecord(b Booking, position int) BookingRecord {
	return BookingRecord{
		Position:  position,
		PNR:       b.PNR,
		Name:      b.Name,
		Age:       b.Age,
		TrainNo:   b.TrainNo,
		TrainName: b.TrainName,
		ClassType: b.ClassType,
		SeatNo:    b.SeatNo,
		Fare:      b.Fare,
		Departure: b.Departure,
	}
}

func (r BookingRecord) ToBooking() Booking {
	return Booking{
		PNR:       r.PNR,
		Name:      r.Name,
		Age:       r.Age,
		TrainNo:   r.TrainNo,
		TrainName: r.TrainName,
		ClassType: r.ClassType,
		SeatNo:    r.SeatNo,
		Fare:      r.Fare,
		Departure: r.Departure,
	}
}
