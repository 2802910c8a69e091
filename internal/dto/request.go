package dto

type CreateBookingRequest struct {
	Name    string `json:"name" validate:"required"`
	Age     int    `json:"age" validate:"required,min=1,max=120"`
	TrainNo string `json:"train_no" validate:"required"`
	Class   string `json:"class" validate:"required"`
}
