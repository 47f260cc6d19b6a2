package books

// AddBookInput carries the fields required for catalog intake.
type AddBookInput struct {
	Title           string
	Author          string
	Genre           string
	ISBN            string
	PublicationYear int
	Quantity        int
	Location        string
}

// UpdateBookInput lists the mutable catalog fields. Nil means "leave as is".
// Quantity is deliberately absent: availability is mutated only by
// checkout/return.
type UpdateBookInput struct {
	Title           *string
	Author          *string
	Genre           *string
	ISBN            *string
	PublicationYear *int
	Location        *string
}

func (in UpdateBookInput) changes() map[string]any {
	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Author != nil {
		updates["author"] = *in.Author
	}
	if in.Genre != nil {
		updates["genre"] = *in.Genre
	}
	if in.ISBN != nil {
		updates["isbn"] = *in.ISBN
	}
	if in.PublicationYear != nil {
		updates["publication_year"] = *in.PublicationYear
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	return updates
}
