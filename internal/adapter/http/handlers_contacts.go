package http

import (
	"net/http"
	"strconv"

	"github.com/contactd/contactd/internal/domain/contact"
	"github.com/contactd/contactd/internal/middleware"
)

func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	au, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return "", false
	}
	return au.ID, true
}

// ListContacts handles GET /api/v1/contacts.
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	f := contact.Filter{
		FirstName: q.Get("first_name"),
		LastName:  q.Get("last_name"),
		Email:     q.Get("email"),
	}
	f.Skip, _ = strconv.Atoi(q.Get("skip"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))

	contacts, err := h.Contacts.List(r.Context(), owner, f)
	if err != nil {
		writeDomainError(w, err, "contact not found")
		return
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

// UpcomingBirthdays handles GET /api/v1/contacts/birthdays.
func (h *Handlers) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	contacts, err := h.Contacts.UpcomingBirthdays(r.Context(), owner)
	if err != nil {
		writeDomainError(w, err, "contact not found")
		return
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

// GetContact handles GET /api/v1/contacts/{id}.
func (h *Handlers) GetContact(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	c, err := h.Contacts.Get(r.Context(), owner, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "contact not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateContact handles POST /api/v1/contacts.
func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[contact.CreateRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Contacts.Create(r.Context(), owner, req)
	if err != nil {
		writeDomainError(w, err, "contact not found")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateContact handles PUT /api/v1/contacts/{id}.
func (h *Handlers) UpdateContact(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[contact.UpdateRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Contacts.Update(r.Context(), owner, urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "contact not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateContactBirthdate handles PATCH /api/v1/contacts/{id}/birthdate.
func (h *Handlers) UpdateContactBirthdate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[contact.UpdateBirthdateRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Contacts.UpdateBirthdate(r.Context(), owner, urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "contact not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteContact handles DELETE /api/v1/contacts/{id} and returns the
// deleted contact.
func (h *Handlers) DeleteContact(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	c, err := h.Contacts.Delete(r.Context(), owner, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "contact not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}
