package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/infra"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"
	"github.com/venky2821/finalproject/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	byID   map[uuid.UUID]*model.Product
	images []model.ProductImage
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(p model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := p
	r.byID[cp.ID] = &cp
	return &cp
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	return r.CreateTx(nil, p)
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	return r.FindByNameTx(nil, name)
}

func (r *stubProductRepo) FindByNameTx(_ *gorm.DB, name string) (*model.Product, error) {
	for _, p := range r.byID {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) ListBelowThreshold(ctx context.Context) ([]model.Product, error) {
	all, _ := r.List(ctx)
	var out []model.Product
	for _, p := range all {
		if p.StockLevel < p.ReorderThreshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) AddImages(_ context.Context, images []model.ProductImage) error {
	r.images = append(r.images, images...)
	return nil
}

func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, stockDelta, reservedDelta int) (*model.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if p.StockLevel+stockDelta < 0 || p.ReservedStock+reservedDelta < 0 {
		return nil, repository.ErrStockConflict
	}
	p.StockLevel += stockDelta
	p.ReservedStock += reservedDelta
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── Stock movements ──────────────────────────────────────────────────────────

type stubMovementRepo struct {
	rows []model.StockMovement
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	m.ID = uuid.New()
	m.Timestamp = time.Now()
	r.rows = append(r.rows, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.rows {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Type != "" && string(m.MovementType) != f.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) ofType(t model.MovementType) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range r.rows {
		if m.MovementType == t {
			out = append(out, m)
		}
	}
	return out
}

// ── Orders ───────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	byID     map[uuid.UUID]*model.Order
	products *stubProductRepo
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

func newStubOrderRepo(products *stubProductRepo) *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[uuid.UUID]*model.Order), products: products}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	r.byID[o.ID] = &cp
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Items = make([]model.OrderItem, len(o.Items))
	for i, it := range o.Items {
		cp.Items[i] = it
		if p, ok := r.products.byID[it.ProductID]; ok {
			pc := *p
			cp.Items[i].Product = &pc
		}
	}
	return &cp, nil
}

func (r *stubOrderRepo) hydrated(id uuid.UUID) model.Order {
	o, _ := r.FindByID(context.Background(), id)
	return *o
}

func (r *stubOrderRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to model.OrderStatus, reason *string) error {
	o, ok := r.byID[id]
	if !ok || o.Status != from {
		return repository.ErrStaleState
	}
	o.Status = to
	if reason != nil {
		o.RejectionReason = reason
	}
	return nil
}

func (r *stubOrderRepo) ListByStatus(_ context.Context, status model.OrderStatus) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.byID {
		if o.Status == status {
			out = append(out, r.hydrated(o.ID))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.byID {
		out = append(out, r.hydrated(o.ID))
	}
	return out, nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.byID {
		if o.UserID == userID {
			out = append(out, r.hydrated(o.ID))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	byID   map[uuid.UUID]*model.User
	logins []model.LoginActivity
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id uuid.UUID, token *string) error {
	u, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.ResetToken = token
	return nil
}

func (r *stubUserRepo) RecordLogin(_ context.Context, a *model.LoginActivity) error {
	a.ID = uuid.New()
	r.logins = append(r.logins, *a)
	return nil
}

func (r *stubUserRepo) LastLogin(_ context.Context, userID uuid.UUID) (*model.LoginActivity, error) {
	for i := len(r.logins) - 1; i >= 0; i-- {
		if r.logins[i].UserID == userID {
			a := r.logins[i]
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ListLogins(_ context.Context, userID uuid.UUID, limit int) ([]model.LoginActivity, error) {
	var out []model.LoginActivity
	for i := len(r.logins) - 1; i >= 0 && len(out) < limit; i-- {
		if r.logins[i].UserID == userID {
			out = append(out, r.logins[i])
		}
	}
	return out, nil
}

// ── Suppliers ────────────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	byID map[uuid.UUID]*model.Supplier
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{byID: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) FindByEmail(_ context.Context, email string) (*model.Supplier, error) {
	for _, s := range r.byID {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.byID {
		out = append(out, *s)
	}
	return out, nil
}

// ── Batches ──────────────────────────────────────────────────────────────────

type stubBatchRepo struct {
	rows     []model.Batch
	products *stubProductRepo
}

var _ repository.BatchRepository = (*stubBatchRepo)(nil)

func (r *stubBatchRepo) Create(_ context.Context, b *model.Batch) error {
	b.ID = uuid.New()
	r.rows = append(r.rows, *b)
	return nil
}

func (r *stubBatchRepo) FindByNumber(_ context.Context, number string) (*model.Batch, error) {
	for i := range r.rows {
		if r.rows[i].BatchNumber == number {
			b := r.rows[i]
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBatchRepo) withProduct(b model.Batch) model.Batch {
	if p, ok := r.products.byID[b.ProductID]; ok {
		pc := *p
		b.Product = &pc
	}
	return b
}

func (r *stubBatchRepo) List(_ context.Context, q repository.BatchQuery) ([]model.Batch, error) {
	var out []model.Batch
	for _, b := range r.rows {
		if q.Status != "" && string(b.Status) != q.Status {
			continue
		}
		if q.ProductID != nil && b.ProductID != *q.ProductID {
			continue
		}
		if q.ReceivedBefore != nil && b.ReceivedDate.After(*q.ReceivedBefore) {
			continue
		}
		if q.ReceivedAfter != nil && b.ReceivedDate.Before(*q.ReceivedAfter) {
			continue
		}
		out = append(out, r.withProduct(b))
	}
	return out, nil
}

func (r *stubBatchRepo) ListExpiringBy(_ context.Context, date time.Time) ([]model.Batch, error) {
	var out []model.Batch
	for _, b := range r.rows {
		if b.ExpirationDate != nil && !b.ExpirationDate.After(date) {
			out = append(out, r.withProduct(b))
		}
	}
	return out, nil
}

func (r *stubBatchRepo) ProductsByBatchNumber(_ context.Context, number string) ([]model.Product, error) {
	var out []model.Product
	for _, b := range r.rows {
		if b.BatchNumber == number {
			if p, ok := r.products.byID[b.ProductID]; ok {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

type stubReportRepo struct {
	sales   []repository.SalesRow
	volumes []repository.MovementVolumeRow
	periods []repository.Period
	mu      sync.Mutex
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

func (r *stubReportRepo) record(p repository.Period) {
	r.mu.Lock()
	r.periods = append(r.periods, p)
	r.mu.Unlock()
}

func (r *stubReportRepo) TopSelling(_ context.Context, p repository.Period, limit int) ([]repository.SalesRow, error) {
	r.record(p)
	out := append([]repository.SalesRow(nil), r.sales...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSold > out[j].TotalSold })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubReportRepo) SalesByProduct(_ context.Context, p repository.Period) ([]repository.SalesRow, error) {
	r.record(p)
	return r.sales, nil
}

func (r *stubReportRepo) MovementVolume(_ context.Context, p repository.Period) ([]repository.MovementVolumeRow, error) {
	r.record(p)
	return r.volumes, nil
}

// ── Content ──────────────────────────────────────────────────────────────────

type stubReviewRepo struct {
	rows []model.Review
}

var _ repository.ReviewRepository = (*stubReviewRepo)(nil)

func (r *stubReviewRepo) Create(_ context.Context, rv *model.Review) error {
	rv.ID = uuid.New()
	r.rows = append(r.rows, *rv)
	return nil
}

func (r *stubReviewRepo) ListByApproval(_ context.Context, a model.Approval) ([]model.Review, error) {
	var out []model.Review
	for _, rv := range r.rows {
		if rv.Approved == a {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *stubReviewRepo) ListAll(_ context.Context) ([]model.Review, error) { return r.rows, nil }

func (r *stubReviewRepo) SetApproval(_ context.Context, id uuid.UUID, a model.Approval) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Approved = a
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubPhotoRepo struct {
	rows []model.Photo
}

var _ repository.PhotoRepository = (*stubPhotoRepo)(nil)

func (r *stubPhotoRepo) Create(_ context.Context, p *model.Photo) error {
	p.ID = uuid.New()
	r.rows = append(r.rows, *p)
	return nil
}

func (r *stubPhotoRepo) ListApproved(_ context.Context, category string) ([]model.Photo, error) {
	var out []model.Photo
	for _, p := range r.rows {
		if p.Approved != model.ApprovalApproved || p.UploadedBy == nil {
			continue
		}
		if category != "" && (p.Category == nil || *p.Category != category) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubPhotoRepo) ListAll(_ context.Context) ([]model.Photo, error) { return r.rows, nil }

func (r *stubPhotoRepo) SetApproval(_ context.Context, id uuid.UUID, a model.Approval) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Approved = a
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPhotoRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range r.rows {
		if p.Category != nil && *p.Category != "" && !seen[*p.Category] {
			seen[*p.Category] = true
			out = append(out, *p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

type stubWishlistRepo struct {
	rows     []model.WishlistItem
	products *stubProductRepo
}

var _ repository.WishlistRepository = (*stubWishlistRepo)(nil)

func (r *stubWishlistRepo) Add(_ context.Context, it *model.WishlistItem) error {
	it.ID = uuid.New()
	it.CreatedAt = time.Now()
	r.rows = append(r.rows, *it)
	return nil
}

func (r *stubWishlistRepo) Exists(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	for _, it := range r.rows {
		if it.UserID == userID && it.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubWishlistRepo) Remove(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	for i, it := range r.rows {
		if it.UserID == userID && it.ProductID == productID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubWishlistRepo) List(_ context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	var out []model.WishlistItem
	for _, it := range r.rows {
		if it.UserID == userID {
			if p, ok := r.products.byID[it.ProductID]; ok {
				pc := *p
				it.Product = &pc
			}
			out = append(out, it)
		}
	}
	return out, nil
}

// ── Collaborators ────────────────────────────────────────────────────────────

type stubNotifier struct {
	mu   sync.Mutex
	sent []worker.EmailJobPayload
}

func (n *stubNotifier) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, p)
	return nil
}

func (n *stubNotifier) subjects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	for i, p := range n.sent {
		out[i] = p.Subject
	}
	return out
}

// stubImageStore accepts .png/.jpg names and rejects anything else the way
// the file store does.
type stubImageStore struct {
	saved []string
	err   error
}

func (s *stubImageStore) SaveImage(bucket, urlPrefix, filename string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if !strings.HasSuffix(filename, ".png") && !strings.HasSuffix(filename, ".jpg") {
		return "", infra.ErrImageFormat
	}
	url := "http://media.test" + urlPrefix + "/" + uuid.NewString() + ".png"
	s.saved = append(s.saved, bucket+":"+url)
	return url, nil
}

type stubCache struct {
	data    map[string]interface{}
	deletes []string
}

func newStubCache() *stubCache { return &stubCache{data: map[string]interface{}{}} }

func (c *stubCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if p, ok := dst.(*dto.ProductResponse); ok {
		*p = v.(dto.ProductResponse)
	}
	return true, nil
}

func (c *stubCache) Set(_ context.Context, key string, v interface{}) error {
	c.data[key] = v
	return nil
}

func (c *stubCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

func mustUUID(t interface{ Fatalf(string, ...interface{}) }, s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("bad uuid %q: %v", s, err)
	}
	return id
}
