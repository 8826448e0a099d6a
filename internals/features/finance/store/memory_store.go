// file: internals/features/finance/store/memory_store.go
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	invoiceModel "kampusku_backend/internals/features/finance/invoices/model"
	reconModel "kampusku_backend/internals/features/finance/reconcile/model"
	tuitionModel "kampusku_backend/internals/features/finance/tuition/model"
)

/* =========================================================
   MemoryStore = implementasi Store in-memory untuk unit test
   service & engine tanpa PostgreSQL.
   - Satu mutex = transaksi serial; ...ForUpdate otomatis aman.
   - Fetch selalu mengembalikan COPY; mutasi baru terlihat
     setelah Save... (meniru semantik row DB).
   - RunInTx snapshot + restore → rollback saat fn error.
========================================================= */

type MemoryStore struct {
	mu   sync.Mutex
	data *memData
}

type memData struct {
	schedules map[uuid.UUID]tuitionModel.FeeScheduleModel
	ledgers   map[uuid.UUID]tuitionModel.TuitionLedgerModel
	invoices  map[uuid.UUID]invoiceModel.InvoiceModel
	events    []reconModel.GatewayEventModel
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*memTx)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: &memData{
		schedules: map[uuid.UUID]tuitionModel.FeeScheduleModel{},
		ledgers:   map[uuid.UUID]tuitionModel.TuitionLedgerModel{},
		invoices:  map[uuid.UUID]invoiceModel.InvoiceModel{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		schedules: make(map[uuid.UUID]tuitionModel.FeeScheduleModel, len(d.schedules)),
		ledgers:   make(map[uuid.UUID]tuitionModel.TuitionLedgerModel, len(d.ledgers)),
		invoices:  make(map[uuid.UUID]invoiceModel.InvoiceModel, len(d.invoices)),
		events:    append([]reconModel.GatewayEventModel(nil), d.events...),
	}
	for k, v := range d.schedules {
		c.schedules[k] = v
	}
	for k, v := range d.ledgers {
		c.ledgers[k] = v
	}
	for k, v := range d.invoices {
		c.invoices[k] = v
	}
	return c
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(&memTx{d: s.data}); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// Events mengembalikan salinan audit log (untuk assertion di test).
func (s *MemoryStore) Events() []reconModel.GatewayEventModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]reconModel.GatewayEventModel(nil), s.data.events...)
}

/* ===== operasi di luar transaksi: lock per call ===== */

func (s *MemoryStore) CreateSchedule(ctx context.Context, m *tuitionModel.FeeScheduleModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.createSchedule(m)
}

func (s *MemoryStore) ScheduleByKey(ctx context.Context, key tuitionModel.ScheduleKey) (*tuitionModel.FeeScheduleModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.scheduleByKey(key)
}

func (s *MemoryStore) ScheduleByID(ctx context.Context, id uuid.UUID) (*tuitionModel.FeeScheduleModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.scheduleByID(id)
}

func (s *MemoryStore) CreateLedgerIfAbsent(ctx context.Context, l *tuitionModel.TuitionLedgerModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.createLedgerIfAbsent(l)
}

func (s *MemoryStore) LedgerByKey(ctx context.Context, studentID uuid.UUID, key tuitionModel.ScheduleKey) (*tuitionModel.TuitionLedgerModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ledgerByKey(studentID, key)
}

func (s *MemoryStore) LedgerByID(ctx context.Context, id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ledgerByID(id)
}

func (s *MemoryStore) LedgerByIDForUpdate(ctx context.Context, id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ledgerByID(id)
}

func (s *MemoryStore) LedgerByInvoiceIDForUpdate(ctx context.Context, invoiceID uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ledgerByInvoiceID(invoiceID)
}

func (s *MemoryStore) SaveLedger(ctx context.Context, l *tuitionModel.TuitionLedgerModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.saveLedger(l)
}

func (s *MemoryStore) CreateInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.createInvoice(inv)
}

func (s *MemoryStore) InvoiceByID(ctx context.Context, id uuid.UUID) (*invoiceModel.InvoiceModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.invoiceByID(id)
}

func (s *MemoryStore) InvoiceByTokenForUpdate(ctx context.Context, token string) (*invoiceModel.InvoiceModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.invoiceByToken(token)
}

func (s *MemoryStore) SaveInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.saveInvoice(inv)
}

func (s *MemoryStore) LogGatewayEvent(ctx context.Context, ev *reconModel.GatewayEventModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.logGatewayEvent(ev)
}

/* ===== view transaksi: mutex sudah dipegang RunInTx ===== */

type memTx struct{ d *memData }

func (t *memTx) RunInTx(ctx context.Context, fn func(tx Store) error) error {
	// nested tx = ikut transaksi luar
	return fn(t)
}

func (t *memTx) CreateSchedule(ctx context.Context, m *tuitionModel.FeeScheduleModel) error {
	return t.d.createSchedule(m)
}
func (t *memTx) ScheduleByKey(ctx context.Context, key tuitionModel.ScheduleKey) (*tuitionModel.FeeScheduleModel, error) {
	return t.d.scheduleByKey(key)
}
func (t *memTx) ScheduleByID(ctx context.Context, id uuid.UUID) (*tuitionModel.FeeScheduleModel, error) {
	return t.d.scheduleByID(id)
}
func (t *memTx) CreateLedgerIfAbsent(ctx context.Context, l *tuitionModel.TuitionLedgerModel) error {
	return t.d.createLedgerIfAbsent(l)
}
func (t *memTx) LedgerByKey(ctx context.Context, studentID uuid.UUID, key tuitionModel.ScheduleKey) (*tuitionModel.TuitionLedgerModel, error) {
	return t.d.ledgerByKey(studentID, key)
}
func (t *memTx) LedgerByID(ctx context.Context, id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	return t.d.ledgerByID(id)
}
func (t *memTx) LedgerByIDForUpdate(ctx context.Context, id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	return t.d.ledgerByID(id)
}
func (t *memTx) LedgerByInvoiceIDForUpdate(ctx context.Context, invoiceID uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	return t.d.ledgerByInvoiceID(invoiceID)
}
func (t *memTx) SaveLedger(ctx context.Context, l *tuitionModel.TuitionLedgerModel) error {
	return t.d.saveLedger(l)
}
func (t *memTx) CreateInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel) error {
	return t.d.createInvoice(inv)
}
func (t *memTx) InvoiceByID(ctx context.Context, id uuid.UUID) (*invoiceModel.InvoiceModel, error) {
	return t.d.invoiceByID(id)
}
func (t *memTx) InvoiceByTokenForUpdate(ctx context.Context, token string) (*invoiceModel.InvoiceModel, error) {
	return t.d.invoiceByToken(token)
}
func (t *memTx) SaveInvoice(ctx context.Context, inv *invoiceModel.InvoiceModel) error {
	return t.d.saveInvoice(inv)
}
func (t *memTx) LogGatewayEvent(ctx context.Context, ev *reconModel.GatewayEventModel) error {
	return t.d.logGatewayEvent(ev)
}

/* ===== data ops (tanpa lock) ===== */

func (d *memData) createSchedule(m *tuitionModel.FeeScheduleModel) error {
	key := tuitionModel.ScheduleKey{
		ProgramID: m.FeeScheduleProgramID,
		Level:     m.FeeScheduleLevel,
		Semester:  m.FeeScheduleSemester,
		Year:      m.FeeScheduleYear,
	}
	for _, ex := range d.schedules {
		if ex.FeeScheduleProgramID == key.ProgramID &&
			ex.FeeScheduleLevel == key.Level &&
			ex.FeeScheduleSemester == key.Semester &&
			ex.FeeScheduleYear == key.Year {
			return gorm.ErrDuplicatedKey
		}
	}
	if m.FeeScheduleID == uuid.Nil {
		m.FeeScheduleID = uuid.New()
	}
	d.schedules[m.FeeScheduleID] = *m
	return nil
}

func (d *memData) scheduleByKey(key tuitionModel.ScheduleKey) (*tuitionModel.FeeScheduleModel, error) {
	for _, s := range d.schedules {
		if s.FeeScheduleProgramID == key.ProgramID &&
			s.FeeScheduleLevel == key.Level &&
			s.FeeScheduleSemester == key.Semester &&
			s.FeeScheduleYear == key.Year {
			out := s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *memData) scheduleByID(id uuid.UUID) (*tuitionModel.FeeScheduleModel, error) {
	s, ok := d.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := s
	return &out, nil
}

func (d *memData) createLedgerIfAbsent(l *tuitionModel.TuitionLedgerModel) error {
	if _, err := d.ledgerByKey(l.TuitionLedgerStudentID, l.Key()); err == nil {
		return nil // kalah race → DoNothing
	}
	if l.TuitionLedgerID == uuid.Nil {
		l.TuitionLedgerID = uuid.New()
	}
	d.ledgers[l.TuitionLedgerID] = *l
	return nil
}

func (d *memData) ledgerByKey(studentID uuid.UUID, key tuitionModel.ScheduleKey) (*tuitionModel.TuitionLedgerModel, error) {
	for _, l := range d.ledgers {
		if l.TuitionLedgerStudentID == studentID && l.Key() == key {
			out := l
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *memData) ledgerByID(id uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	l, ok := d.ledgers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := l
	return &out, nil
}

func (d *memData) ledgerByInvoiceID(invoiceID uuid.UUID) (*tuitionModel.TuitionLedgerModel, error) {
	for _, l := range d.ledgers {
		if l.TuitionLedgerInvoiceID != nil && *l.TuitionLedgerInvoiceID == invoiceID {
			out := l
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *memData) saveLedger(l *tuitionModel.TuitionLedgerModel) error {
	if l.TuitionLedgerID == uuid.Nil {
		return gorm.ErrInvalidData
	}
	d.ledgers[l.TuitionLedgerID] = *l
	return nil
}

func (d *memData) createInvoice(inv *invoiceModel.InvoiceModel) error {
	for _, ex := range d.invoices {
		if ex.InvoiceToken == inv.InvoiceToken {
			return gorm.ErrDuplicatedKey
		}
	}
	if inv.InvoiceID == uuid.Nil {
		inv.InvoiceID = uuid.New()
	}
	d.invoices[inv.InvoiceID] = *inv
	return nil
}

func (d *memData) invoiceByID(id uuid.UUID) (*invoiceModel.InvoiceModel, error) {
	inv, ok := d.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := inv
	return &out, nil
}

func (d *memData) invoiceByToken(token string) (*invoiceModel.InvoiceModel, error) {
	for _, inv := range d.invoices {
		if inv.InvoiceToken == token {
			out := inv
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *memData) saveInvoice(inv *invoiceModel.InvoiceModel) error {
	if inv.InvoiceID == uuid.Nil {
		return gorm.ErrInvalidData
	}
	d.invoices[inv.InvoiceID] = *inv
	return nil
}

func (d *memData) logGatewayEvent(ev *reconModel.GatewayEventModel) error {
	if ev.GatewayEventID == uuid.Nil {
		ev.GatewayEventID = uuid.New()
	}
	d.events = append(d.events, *ev)
	return nil
}
