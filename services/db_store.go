package services

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"salonpro-crm/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

//go:embed schema/*.sql
var schemas embed.FS

type customerRow struct {
	ID              string `gorm:"primaryKey"`
	Name            string
	PhoneNumber     string
	PreferredStyles pq.StringArray `gorm:"type:text[]"`
	Notes           string
}

func (customerRow) TableName() string { return "customers" }

type visitRow struct {
	ID            uint `gorm:"primaryKey"`
	CustomerID    string
	VisitDate     time.Time
	ServicesTaken pq.StringArray `gorm:"type:text[]"`
	Notes         string
}

func (visitRow) TableName() string { return "service_visits" }

func (v visitRow) toModel() models.ServiceVisit {
	services := []string(v.ServicesTaken)
	if services == nil {
		services = []string{}
	}
	return models.ServiceVisit{
		Date:          v.VisitDate.UTC(),
		ServicesTaken: services,
		Notes:         v.Notes,
	}
}

// DBStore keeps customers in the customers table and their visits in
// service_visits. A customer aggregate is assembled from one query per table.
type DBStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDBStore(db *gorm.DB, logger *slog.Logger) *DBStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DBStore{
		db:     db,
		logger: logger.With("component", "db-store"),
	}
}

// ApplySchema creates the tables for the connected dialect if they are missing.
func ApplySchema(ctx context.Context, db *gorm.DB) error {
	dialect := db.Dialector.Name()
	script, err := schemas.ReadFile("schema/" + dialect + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for dialect %q: %w", dialect, err)
	}
	for _, stmt := range strings.Split(string(script), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *DBStore) fail(op string, err error) error {
	s.logger.Error("storage operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func (s *DBStore) assemble(ctx context.Context, row customerRow) (models.Customer, error) {
	var visits []visitRow
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", row.ID).
		Order("visit_date ASC, id ASC").
		Find(&visits).Error; err != nil {
		return models.Customer{}, err
	}

	c := models.NewCustomer(row.ID, row.Name, row.PhoneNumber, []string(row.PreferredStyles), row.Notes)
	for _, v := range visits {
		c.AddServiceVisit(v.toModel())
	}
	return c, nil
}

// assembleAll loads visit history one customer at a time.
func (s *DBStore) assembleAll(ctx context.Context, rows []customerRow) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(rows))
	for _, row := range rows {
		c, err := s.assemble(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *DBStore) findOne(ctx context.Context, op, column, value string) (*models.Customer, error) {
	var row customerRow
	err := s.db.WithContext(ctx).Where(column+" = ?", value).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, s.fail(op, err)
	}

	c, err := s.assemble(ctx, row)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return &c, nil
}

func (s *DBStore) ListAll(ctx context.Context) ([]models.Customer, error) {
	var rows []customerRow
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, s.fail("list customers", err)
	}
	out, err := s.assembleAll(ctx, rows)
	if err != nil {
		return nil, s.fail("list customers", err)
	}
	return out, nil
}

func (s *DBStore) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	return s.findOne(ctx, "get customer", "id", id)
}

func (s *DBStore) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return s.findOne(ctx, "get customer by phone", "phone_number", phone)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *DBStore) SearchByName(ctx context.Context, term string) ([]models.Customer, error) {
	if strings.TrimSpace(term) == "" {
		return []models.Customer{}, nil
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	var rows []customerRow
	if err := s.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, s.fail("search customers", err)
	}
	out, err := s.assembleAll(ctx, rows)
	if err != nil {
		return nil, s.fail("search customers", err)
	}
	return out, nil
}

func (s *DBStore) Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	styles := input.PreferredStyles
	if styles == nil {
		styles = []string{}
	}
	row := customerRow{
		ID:              uuid.NewString(),
		Name:            input.Name,
		PhoneNumber:     input.PhoneNumber,
		PreferredStyles: pq.StringArray(styles),
		Notes:           input.Notes,
	}

	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicatePhone
	}
	if err != nil {
		return nil, s.fail("create customer", err)
	}
	return s.GetByID(ctx, row.ID)
}

func (s *DBStore) Update(ctx context.Context, id string, input UpdateCustomerInput) (*models.Customer, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	input.applyTo(current)

	err = s.db.WithContext(ctx).Model(&customerRow{}).Where("id = ?", id).Updates(map[string]any{
		"name":             current.Name,
		"phone_number":     current.PhoneNumber,
		"preferred_styles": pq.StringArray(current.PreferredStyles),
		"notes":            current.Notes,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicatePhone
	}
	if err != nil {
		return nil, s.fail("update customer", err)
	}
	return s.GetByID(ctx, id)
}

func (s *DBStore) AddVisit(ctx context.Context, id string, servicesTaken []string, notes string) (*models.ServiceVisit, error) {
	if servicesTaken == nil {
		return nil, ErrInvalidServices
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&customerRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, s.fail("add visit", err)
	}
	if count == 0 {
		return nil, ErrCustomerNotFound
	}

	visit := models.NewServiceVisit(servicesTaken, notes)
	row := visitRow{
		CustomerID:    id,
		VisitDate:     visit.Date,
		ServicesTaken: pq.StringArray(visit.ServicesTaken),
		Notes:         visit.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, s.fail("add visit", err)
	}
	out := row.toModel()
	return &out, nil
}

// Delete removes the customer row; the foreign key cascade removes its visits.
func (s *DBStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&customerRow{})
	if res.Error != nil {
		return false, s.fail("delete customer", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *DBStore) Backend() string { return BackendDatabase }

func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
