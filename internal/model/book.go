package model

import "time"

// Book represents a catalog entry and the set of users who currently hold a
// copy. The ID is the external catalog identifier supplied when the book is
// first added, not a generated one; two users adding the same catalog entry
// share a single Book record.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	PubYear   string    `json:"pub_year,omitempty"`
	ImgURL    string    `json:"img_url,omitempty"`
	Owners    []string  `json:"owners"`
	CreatedOn time.Time `json:"created_on"`
}

// OwnedBy reports whether userID is in the owner set.
func (b *Book) OwnedBy(userID string) bool {
	for _, id := range b.Owners {
		if id == userID {
			return true
		}
	}
	return false
}

// HasOwners reports whether the book has at least one current owner.
// Only books with owners can be requested.
func (b *Book) HasOwners() bool {
	return len(b.Owners) > 0
}

// AddBookRequest is the payload for adding a book to a user's shelf.
// The fields come from a prior catalog search result.
type AddBookRequest struct {
	BookID  string `json:"book_id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	PubYear string `json:"pub_year,omitempty"`
	ImgURL  string `json:"img_url,omitempty"`
}

// CatalogResult is a single candidate returned by an external catalog search.
// The ID is provisional: it only becomes a Book when someone adds it.
type CatalogResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	PubYear string `json:"pub_year,omitempty"`
	ImgURL  string `json:"img_url,omitempty"`
}
