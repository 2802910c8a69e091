package dto

import (
	"github.com/Eursukkul/train-reservation/internal/models"
)

type BookingResponse struct {
	BookingID string `json:"booking_id"`
	PNR       string `json:"pnr"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	TrainNo   string `json:"train_no"`
	TrainName string `json:"train_name"`
	Class     string `json:"class"`
	SeatNo    int    `json:"seat_no"`
	Fare      int    `json:"fare"`
	Departure string `json:"departure"`
}

type TrainResponse struct {
	Number    string   `json:"train_no"`
	Name      string   `json:"train_name"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Arrival   string   `json:"arrival"`
	Departure string   `json:"departure"`
	Stop      string   `json:"stop"`
	Classes   []string `json:"classes"`
	ClassList string   `json:"class_list"`
}

type AvailabilityResponse struct {
	TrainNo   string                     `json:"train_no"`
	TrainName string                     `json:"train_name"`
	Classes   []models.ClassAvailability `json:"classes"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		BookingID: b.BookingID(),
		PNR:       b.PNR,
		Name:      b.Name,
		Age:       b.Age,
		TrainNo:   b.TrainNo,
		TrainName: b.TrainName,
		Class:     b.ClassType,
		SeatNo:    b.SeatNo,
		Fare:      b.Fare,
		Departure: b.Departure,
	}
}

func ToTrainResponse(t *models.Train) TrainResponse {
	return TrainResponse{
		Number:    t.Number,
		Name:      t.Name,
		From:      t.From,
		To:        t.To,
		Arrival:   t.Arrival,
		Departure: t.Departure,
		Stop:      t.Stop,
		Classes:   t.Classes,
		ClassList: t.ClassList(),
	}
}

func ToAvailabilityResponse(a *models.TrainAvailability) AvailabilityResponse {
	return AvailabilityResponse{
		TrainNo:   a.TrainNo,
		TrainName: a.TrainName,
		Classes:   a.Classes,
	}
}

func ToTrainResponses(trains []models.Train) []TrainResponse {
	resp := make([]TrainResponse, len(trains))
	for i := range trains {
		resp[i] = ToTrainResponse(&trains[i])
	}
	return resp
}
