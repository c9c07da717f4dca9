package dto

type CreateSupplierRequest struct {
	Name          string `json:"name"           validate:"required,min=1,max=120"`
	ContactPerson string `json:"contact_person" validate:"required,max=120"`
	Phone         string `json:"phone"          validate:"required,max=20"`
	Email         string `json:"email"          validate:"required,email"`
	Address       string `json:"address"        validate:"required,max=255"`
}

type SupplierResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// SupplierSummary is the short form used by the supplier picker.
type SupplierSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateSupplierResponse struct {
	Message  string           `json:"message"`
	Supplier SupplierResponse `json:"supplier"`
}
