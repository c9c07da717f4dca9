package dto

// MessageResponse is the plain acknowledgement body most mutations return.
type MessageResponse struct {
	Message string `json:"message"`
}

type Pagination struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }
