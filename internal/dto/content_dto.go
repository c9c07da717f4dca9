package dto

// ─── Reviews ─────────────────────────────────────────────────────────────────

type ReviewResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Rating      int     `json:"rating"`
	ReviewText  string  `json:"review_text"`
	ReviewPhoto *string `json:"review_photo"`
	Approved    int     `json:"approved"`
	CreatedAt   string  `json:"created_at"`
}

type CreateReviewResponse struct {
	Message string         `json:"message"`
	Review  ReviewResponse `json:"review"`
}

// ─── Photos ──────────────────────────────────────────────────────────────────

type PhotoResponse struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	Category   *string `json:"category"`
	UploadedBy *string `json:"uploaded_by"`
	Approved   int     `json:"approved"`
	CreatedAt  string  `json:"created_at"`
}

type PhotoUploadResponse struct {
	Message string `json:"message"`
	PhotoID string `json:"photo_id"`
}

// ─── Wishlist ────────────────────────────────────────────────────────────────

type WishlistItemResponse struct {
	ProductID string          `json:"product_id"`
	AddedAt   string          `json:"added_at"`
	Product   ProductResponse `json:"product"`
}
