package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
)

// ObjectUploader stores an export and returns where it can be fetched.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type ExportResult struct {
	URL    string `json:"url"`
	Object string `json:"object"`
	Rows   int    `json:"rows"`
}

var csvHeader = []string{
	"id", "street", "house_number", "city", "postcode", "lat", "lng", "flats", "levels",
	"created_at", "status", "assigned_to", "assigned_at", "completed_at",
}

// Export writes every address matching in as CSV to object storage.
// Paging fields in in are ignored.
func (s *AddressService) Export(ctx context.Context, actor entity.Actor, in ListInput) (*ExportResult, error) {
	if !actor.IsAdmin {
		return nil, apperror.Forbidden("admin only")
	}
	if s.Uploader == nil {
		return nil, apperror.New(apperror.KindUnavailable, "export storage not configured")
	}
	data, err := s.Repo.List(ctx, filterFor(actor, in))
	if err != nil {
		return nil, apperror.Store(err)
	}

	var buf bytes.Buffer
	if err := writeAddressesCSV(&buf, data); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "export encoding failed", err)
	}
	object := "exports/addresses-" + s.Now().UTC().Format("20060102T150405Z") + ".csv"
	url, err := s.Uploader.Upload(ctx, object, "text/csv", &buf)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnavailable, "export upload failed", err)
	}
	return &ExportResult{URL: url, Object: object, Rows: len(data)}, nil
}

func writeAddressesCSV(w io.Writer, rows []entity.Address) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range rows {
		a := &rows[i]
		rec := []string{
			a.ID,
			a.Street,
			a.HouseNumber,
			a.City,
			a.Postcode,
			strconv.FormatFloat(a.Lat, 'f', -1, 64),
			strconv.FormatFloat(a.Lng, 'f', -1, 64),
			strconv.Itoa(a.Flats),
			strconv.Itoa(a.Levels),
			a.CreatedAt.UTC().Format(time.RFC3339),
			string(a.Status()),
			deref(a.AssignedTo),
			formatTime(a.AssignedAt),
			formatTime(a.CompletedAt),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
