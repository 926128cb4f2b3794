package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/sheet"
)

// PreviewRows is how many records a preview returns.
const PreviewRows = 10

type Preview struct {
	Headers []string `json:"headers"`
	Preview []bson.M `json:"preview"`
	Rows    int      `json:"rows"`
}

type TransferService struct {
	store  Store
	engine *authz.Engine
}

func NewTransferService(store Store, engine *authz.Engine) *TransferService {
	return &TransferService{store: store, engine: engine}
}

func (s *TransferService) Preview(filename string, r io.Reader) (*Preview, error) {
	table, err := readSheet(filename, r)
	if err != nil {
		return nil, err
	}
	rows := table.Records
	if len(rows) > PreviewRows {
		rows = rows[:PreviewRows]
	}
	return &Preview{Headers: table.Headers, Preview: rows, Rows: len(table.Records)}, nil
}

// Import parses the upload and inserts every record into db.coll.
func (s *TransferService) Import(ctx context.Context, u *model.User, db, coll, filename string, r io.Reader) (int, error) {
	dbName, collName, err := authorizeCollection(s.engine, u, db, coll)
	if err != nil {
		return 0, err
	}
	table, err := readSheet(filename, r)
	if err != nil {
		return 0, err
	}
	if len(table.Records) == 0 {
		return 0, Invalid("file contains no data rows")
	}
	n, err := s.store.InsertMany(ctx, dbName, collName, table.Records)
	if err != nil {
		return n, fmt.Errorf("import into %s.%s: %w", dbName, collName, err)
	}
	return n, nil
}

// Export writes db.coll to w as CSV.
func (s *TransferService) Export(ctx context.Context, u *model.User, db, coll string, w io.Writer) error {
	dbName, collName, err := authorizeCollection(s.engine, u, db, coll)
	if err != nil {
		return err
	}
	var docs []bson.D
	err = s.store.Each(ctx, dbName, collName, func(d bson.D) error {
		docs = append(docs, d)
		return nil
	})
	if err != nil {
		return fmt.Errorf("read %s.%s: %w", dbName, collName, err)
	}
	if err := sheet.WriteCSV(w, docs); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ExportFilename is the attachment name for an export of db.coll.
func ExportFilename(db, coll string) string {
	return db + "_" + coll + ".csv"
}

func readSheet(filename string, r io.Reader) (*sheet.Table, error) {
	if !sheet.Supported(filename) {
		return nil, Invalid("%s", sheet.ErrUnsupportedFormat.Error())
	}
	table, err := sheet.Read(filename, r)
	if err != nil {
		if errors.Is(err, sheet.ErrUnsupportedFormat) {
			return nil, Invalid("%s", err.Error())
		}
		return nil, &Error{Kind: KindInvalidInput, Message: "could not read the uploaded file", Err: err}
	}
	return table, nil
}
