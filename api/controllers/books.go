package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nmoreno/biblio-backend/api/responses"
	"github.com/nmoreno/biblio-backend/api/validators"
	booksvc "github.com/nmoreno/biblio-backend/internal/books"
	pkgerrors "github.com/nmoreno/biblio-backend/pkg/errors"
	"github.com/nmoreno/biblio-backend/pkg/logger"
	"github.com/nmoreno/biblio-backend/pkg/pagination"
	"github.com/nmoreno/biblio-backend/pkg/types"
)

// AddBook registers a new catalog entry.
func AddBook(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		var payload addBookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.AddBook(r.Context(), booksvc.AddBookInput{
			Title:           strings.TrimSpace(payload.Title),
			Author:          strings.TrimSpace(payload.Author),
			Genre:           strings.TrimSpace(payload.Genre),
			ISBN:            strings.TrimSpace(payload.ISBN),
			PublicationYear: payload.PublicationYear,
			Quantity:        payload.Quantity,
			Location:        strings.TrimSpace(payload.Location),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, book)
	}
}

// GetBook loads a catalog entry by path id.
func GetBook(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseBookID(chi.URLParam(r, "bookId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.GetBook(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, book)
	}
}

// FindBookByISBN resolves a catalog entry from the isbn query parameter.
func FindBookByISBN(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isbn := strings.TrimSpace(r.URL.Query().Get("isbn"))
		if isbn == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "isbn query parameter required"))
			return
		}

		book, err := svc.GetBookByISBN(r.Context(), isbn)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, book)
	}
}

// SearchBooks runs a case-insensitive substring search over the catalog.
func SearchBooks(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.SearchBooks(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, results)
	}
}

// UpdateBook applies a partial catalog update and reports how many fields changed.
func UpdateBook(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseBookID(chi.URLParam(r, "bookId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		changed, err := svc.UpdateBook(r.Context(), id, booksvc.UpdateBookInput{
			Title:           payload.Title,
			Author:          payload.Author,
			Genre:           payload.Genre,
			ISBN:            payload.ISBN,
			PublicationYear: payload.PublicationYear,
			Location:        payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"fields_changed": changed})
	}
}

// DeleteBook removes a catalog entry unless open orders block the deletion.
func DeleteBook(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseBookID(chi.URLParam(r, "bookId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.DeleteBook(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": deleted})
	}
}

type addBookRequest struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	Genre           string `json:"genre,omitempty"`
	ISBN            string `json:"isbn" validate:"required"`
	PublicationYear int    `json:"publication_year,omitempty" validate:"omitempty,min=0"`
	Quantity        int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Location        string `json:"location,omitempty"`
}

type updateBookRequest struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	Genre           *string `json:"genre,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty" validate:"omitempty,min=0"`
	Location        *string `json:"location,omitempty"`
}

func parseBookID(raw string) (types.BookID, error) {
	id, err := types.ParseBookID(strings.TrimSpace(raw))
	if err != nil {
		return types.NilBookID, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid book id")
	}
	return id, nil
}
