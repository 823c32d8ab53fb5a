package models

// AddItemRequest is the POST body for adding a product to the cart.
type AddItemRequest struct {
	ID string `json:"id"`
}

// QuantityUpdate is the PATCH body for a cart line.
type QuantityUpdate struct {
	Quantity *int `json:"quantity,omitempty"`
}

// ContactRequest is the contact form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// NewsletterRequest is the newsletter signup submission.
type NewsletterRequest struct {
	Email string `json:"email"`
}

// CheckoutResponse is returned when checkout starts.
type CheckoutResponse struct {
	Pending bool     `json:"pending"`
	Prompt  string   `json:"prompt"`
	Cart    CartView `json:"cart"`
}
