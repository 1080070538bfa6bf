package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/contactd/contactd/internal/domain"
	"github.com/contactd/contactd/internal/domain/contact"
)

func (s *Store) ListContacts(ctx context.Context, ownerID string, f contact.Filter) ([]contact.Contact, error) {
	f.Normalize()

	var sb strings.Builder
	sb.WriteString(`SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1`)
	args := []any{ownerID}

	if f.FirstName != "" {
		args = append(args, "%"+f.FirstName+"%")
		sb.WriteString(` AND first_name ILIKE $` + strconv.Itoa(len(args)))
	}
	if f.LastName != "" {
		args = append(args, "%"+f.LastName+"%")
		sb.WriteString(` AND last_name ILIKE $` + strconv.Itoa(len(args)))
	}
	if f.Email != "" {
		args = append(args, "%"+f.Email+"%")
		sb.WriteString(` AND email ILIKE $` + strconv.Itoa(len(args)))
	}

	args = append(args, f.Limit)
	sb.WriteString(` ORDER BY last_name, first_name, id LIMIT $` + strconv.Itoa(len(args)))
	args = append(args, f.Skip)
	sb.WriteString(` OFFSET $` + strconv.Itoa(len(args)))

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []contact.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *Store) GetContact(ctx context.Context, ownerID, id string) (*contact.Contact, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND user_id = $2`, id, ownerID)

	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get contact %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get contact %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) CreateContact(ctx context.Context, ownerID string, req contact.CreateRequest) (*contact.Contact, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO contacts (id, user_id, first_name, last_name, email, phone, birthdate, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+contactColumns,
		uuid.NewString(), ownerID, req.FirstName, req.LastName, req.Email, req.Phone, req.Birthdate, req.Notes,
	)

	c, err := scanContact(row)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on (user_id, email).
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("create contact: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &c, nil
}

func (s *Store) UpdateContact(ctx context.Context, ownerID, id string, req contact.UpdateRequest) (*contact.Contact, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone = $6, birthdate = $7, notes = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+contactColumns,
		id, ownerID, req.FirstName, req.LastName, req.Email, req.Phone, req.Birthdate, req.Notes,
	)

	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update contact %s: %w", id, domain.ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("update contact %s: %w", id, domain.ErrConflict)
		}
		return nil, fmt.Errorf("update contact %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) DeleteContact(ctx context.Context, ownerID, id string) (*contact.Contact, error) {
	row := s.pool.QueryRow(ctx,
		`DELETE FROM contacts WHERE id = $1 AND user_id = $2 RETURNING `+contactColumns, id, ownerID)

	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("delete contact %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete contact %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) ListContactsWithBirthdays(ctx context.Context, ownerID string) ([]contact.Contact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE user_id = $1 AND birthdate IS NOT NULL ORDER BY last_name, first_name, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts with birthdays: %w", err)
	}
	defer rows.Close()

	var contacts []contact.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
