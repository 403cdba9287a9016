package model

import "time"

// Rug is a gallery product. ImageKey references an attachment in object
// storage by its generated key; it is empty for rugs without a photo.
type Rug struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageKey    string    `json:"image_key"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *Rug) Identity() int      { return r.ID }
func (r *Rug) SetIdentity(id int) { r.ID = id }

// UpdateFrom copies the mutable fields from dto. ID and CreatedAt are
// immutable after creation.
func (r *Rug) UpdateFrom(dto *Rug) *Rug {
	r.Name = dto.Name
	r.Description = dto.Description
	r.Price = dto.Price
	r.ImageKey = dto.ImageKey
	return r
}
