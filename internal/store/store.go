// Package store holds the repositories every handler reads and writes
// through. All queries are confined to one organization with tenant.Scope.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"syntra-bizops/internal/database/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotApplied is returned when a conditional update matched no row.
	ErrNotApplied = errors.New("conditional update not applied")
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	FindByID(ctx context.Context, id uint) (*models.Organization, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, orgID, userID uint) (*models.User, error)
	FindByBarcode(ctx context.Context, orgID uint, barcode string) (*models.User, error)
	ListByRole(ctx context.Context, orgID uint, role models.UserRole) ([]models.User, error)
	CountByRole(ctx context.Context, orgID uint, role models.UserRole) (int64, error)
	// AttachOrganization sets the organization of a user that has none.
	AttachOrganization(ctx context.Context, userID, orgID uint) error
	// SetBarcode assigns a barcode to a user that has none.
	SetBarcode(ctx context.Context, orgID, userID uint, barcode string) error
	Delete(ctx context.Context, orgID, userID uint) error
}

type AttendanceRepository interface {
	Create(ctx context.Context, a *models.Attendance) error
	// SetCheckIn stamps a record that has no check-in yet.
	SetCheckIn(ctx context.Context, orgID, id uint, at time.Time, status models.AttendanceStatus) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Attendance, error)
	FindForDay(ctx context.Context, orgID, userID uint, day string) (*models.Attendance, error)
	// SetCheckOut stamps a record that has no check-out yet.
	SetCheckOut(ctx context.Context, orgID, id uint, at time.Time) error
	List(ctx context.Context, orgID uint, filter AttendanceFilter) ([]models.Attendance, error)
}

// AttendanceFilter narrows a listing. Zero fields are ignored; days are
// inclusive DayLayout strings.
type AttendanceFilter struct {
	UserID  uint
	FromDay string
	ToDay   string
}

type SalaryRepository interface {
	FindByUser(ctx context.Context, orgID, userID uint) (*models.Salary, error)
	Save(ctx context.Context, s *models.Salary) error
	List(ctx context.Context, orgID uint) ([]models.Salary, error)
	DeleteByUser(ctx context.Context, orgID, userID uint) error
}

type PayslipRepository interface {
	Create(ctx context.Context, p *models.Payslip) error
	FindByPeriod(ctx context.Context, orgID, userID uint, month, year int) (*models.Payslip, error)
	List(ctx context.Context, orgID uint, filter PayslipFilter) ([]models.Payslip, error)
}

type PayslipFilter struct {
	UserID uint
	Month  int
	Year   int
}

type LeaveRepository interface {
	Create(ctx context.Context, l *models.Leave) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Leave, error)
	// Review moves a pending leave to status.
	Review(ctx context.Context, orgID, id uint, status models.LeaveStatus, reviewer uint, at time.Time) error
	List(ctx context.Context, orgID, userID uint) ([]models.Leave, error)
	DeletePendingByUser(ctx context.Context, orgID, userID uint) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Product, error)
	// LockForSale loads the given products with row locks, in id order.
	LockForSale(ctx context.Context, orgID uint, ids []uint) (map[uint]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	// AdjustStock adds delta to stock unless the result would be negative.
	AdjustStock(ctx context.Context, orgID, id uint, delta int) error
	Archive(ctx context.Context, orgID, id uint) error
	ListActive(ctx context.Context, orgID uint) ([]models.Product, error)
	ListLowStock(ctx context.Context, orgID uint, threshold int) ([]models.Product, error)
	RecordMovement(ctx context.Context, m *models.StockMovement) error
	ListMovements(ctx context.Context, orgID, productID uint) ([]models.StockMovement, error)
}

type SaleRepository interface {
	Create(ctx context.Context, s *models.Sale) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Sale, error)
	List(ctx context.Context, orgID uint) ([]models.Sale, error)
	Summary(ctx context.Context, orgID uint, from, to time.Time) (SalesSummary, error)
	// Totals lists the creation time and total of each sale in [from, to).
	Totals(ctx context.Context, orgID uint, from, to time.Time) ([]SaleTotal, error)
	TopProducts(ctx context.Context, orgID uint, limit int) ([]ProductSales, error)
}

type SalesSummary struct {
	Count   int64
	Revenue decimal.Decimal
}

type SaleTotal struct {
	CreatedAt time.Time
	Total     decimal.Decimal
}

type ProductSales struct {
	ProductID   uint
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Message, error)
	// ListReceived lists messages addressed to receiverID, newest first.
	ListReceived(ctx context.Context, orgID, receiverID uint, filter MessageFilter) ([]models.Message, error)
	// MarkRead stamps an unread message addressed to receiverID.
	MarkRead(ctx context.Context, orgID, id, receiverID uint, at time.Time) error
}

// MessageFilter narrows a listing. Zero fields are ignored.
type MessageFilter struct {
	Kind       models.MessageKind
	UnreadOnly bool
}

// Repositories groups the per-entity repositories of one unit of work.
type Repositories interface {
	Organizations() OrganizationRepository
	Users() UserRepository
	Attendance() AttendanceRepository
	Salaries() SalaryRepository
	Payslips() PayslipRepository
	Leaves() LeaveRepository
	Products() ProductRepository
	Sales() SaleRepository
	Messages() MessageRepository
}

type Store interface {
	Repositories
	// Transact runs fn in one database transaction. fn must use only the
	// repositories it is given. A non-nil error rolls everything back.
	Transact(ctx context.Context, fn func(Repositories) error) error
}

type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transact(ctx context.Context, fn func(Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Organizations() OrganizationRepository { return &organizationRepo{db: s.db} }
func (s *GormStore) Users() UserRepository                 { return &userRepo{db: s.db} }
func (s *GormStore) Attendance() AttendanceRepository      { return &attendanceRepo{db: s.db} }
func (s *GormStore) Salaries() SalaryRepository            { return &salaryRepo{db: s.db} }
func (s *GormStore) Payslips() PayslipRepository           { return &payslipRepo{db: s.db} }
func (s *GormStore) Leaves() LeaveRepository               { return &leaveRepo{db: s.db} }
func (s *GormStore) Products() ProductRepository           { return &productRepo{db: s.db} }
func (s *GormStore) Sales() SaleRepository                 { return &saleRepo{db: s.db} }
func (s *GormStore) Messages() MessageRepository           { return &messageRepo{db: s.db} }

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicate(err):
		return errors.Join(ErrDuplicate, err)
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func applied(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotApplied
	}
	return nil
}
