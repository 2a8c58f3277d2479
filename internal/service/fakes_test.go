package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/collegekit/feedback-api/config"
	"github.com/collegekit/feedback-api/internal/errdefs"
	"github.com/collegekit/feedback-api/internal/mailer"
	"github.com/collegekit/feedback-api/internal/model"
	"github.com/collegekit/feedback-api/internal/repository"
)

// In-memory repository fakes for the service tests. They reproduce the
// storage semantics the services depend on: gorm.ErrRecordNotFound for
// missing rows, preload-style association stitching, and the conditional
// is_submitted flip that backs the at-most-once guarantee. Seeded fixture
// IDs stay below 100; IDs assigned by create paths start at 101.

func uintPtr(v uint) *uint { return &v }

func testConfig(strict bool) *config.Config {
	return &config.Config{
		Auth:       config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Mail:       config.Mail{PortalBaseURL: "https://feedback.example.edu"},
		Cache:      config.Cache{TTL: time.Minute},
		Submission: config.Submission{Strict: strict},
	}
}

// --- grants ---

type fakeGrantRepo struct {
	mu     sync.Mutex
	nextID uint
	grants []*model.AccessGrant
	// forms is stitched onto FindByToken results the way the real repository
	// preloads FeedbackForm and its SubjectAllocation; roster, when set,
	// backs the Student/OverrideStudent preloads of FindByFormID.
	forms  map[uint]model.FeedbackForm
	roster *fakeStudentRepo
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{
		nextID: 100,
		forms:  make(map[uint]model.FeedbackForm),
	}
}

func (f *fakeGrantRepo) seed(g model.AccessGrant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := g
	f.grants = append(f.grants, &c)
}

func (f *fakeGrantRepo) Create(_ context.Context, grant *model.AccessGrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	grant.ID = f.nextID
	grant.CreatedAt = time.Now()
	c := *grant
	f.grants = append(f.grants, &c)
	return nil
}

func (f *fakeGrantRepo) CreateInBatches(_ context.Context, grants []model.AccessGrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range grants {
		f.nextID++
		grants[i].ID = f.nextID
		c := grants[i]
		f.grants = append(f.grants, &c)
	}
	return nil
}

func (f *fakeGrantRepo) FindByToken(_ context.Context, token string) (*model.AccessGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.grants {
		if g.Token == token {
			out := *g
			if form, ok := f.forms[g.FeedbackFormID]; ok {
				out.FeedbackForm = form
			}
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGrantRepo) FindByFormID(_ context.Context, formID uint) ([]model.AccessGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AccessGrant
	for _, g := range f.grants {
		if g.FeedbackFormID != formID {
			continue
		}
		row := *g
		if f.roster != nil {
			if g.StudentID != nil {
				if st, err := f.roster.FindByIDWithAcademics(context.Background(), *g.StudentID); err == nil {
					row.Student = st
				}
			}
			if g.OverrideStudentID != nil {
				if o, err := f.roster.FindOverrideByID(context.Background(), *g.OverrideStudentID); err == nil {
					row.OverrideStudent = o
				}
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// tryConsume performs the conditional flag flip the real repository issues
// inside the submission transaction.
func (f *fakeGrantRepo) tryConsume(id uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.grants {
		if g.ID == id {
			if g.IsSubmitted {
				return false
			}
			g.IsSubmitted = true
			return true
		}
	}
	return false
}

func (f *fakeGrantRepo) isSubmitted(id uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.grants {
		if g.ID == id {
			return g.IsSubmitted
		}
	}
	return false
}

// --- questions ---

type fakeQuestionRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*model.FeedbackQuestion
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{nextID: 100, byID: make(map[uint]*model.FeedbackQuestion)}
}

func (f *fakeQuestionRepo) seed(q model.FeedbackQuestion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := q
	f.byID[q.ID] = &c
}

func (f *fakeQuestionRepo) insertLocked(q *model.FeedbackQuestion) {
	f.nextID++
	q.ID = f.nextID
	c := *q
	f.byID[q.ID] = &c
}

func (f *fakeQuestionRepo) Create(_ context.Context, question *model.FeedbackQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertLocked(question)
	return nil
}

func (f *fakeQuestionRepo) FindByID(_ context.Context, id uint) (*model.FeedbackQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *q
	return &out, nil
}

func (f *fakeQuestionRepo) FindByFormID(_ context.Context, formID uint) ([]model.FeedbackQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listByFormLocked(formID), nil
}

func (f *fakeQuestionRepo) FindByIDsForForm(_ context.Context, formID uint, ids []uint) ([]model.FeedbackQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []model.FeedbackQuestion
	for _, q := range f.byID {
		if q.FeedbackFormID == formID && wanted[q.ID] {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Update(_ context.Context, question *model.FeedbackQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *question
	f.byID[question.ID] = &c
	return nil
}

func (f *fakeQuestionRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeQuestionRepo) listByFormLocked(formID uint) []model.FeedbackQuestion {
	var out []model.FeedbackQuestion
	for _, q := range f.byID {
		if q.FeedbackFormID == formID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- responses + snapshots ---

type fakeResponseRepo struct {
	mu        sync.Mutex
	grants    *fakeGrantRepo
	nextID    uint
	responses []model.StudentResponse
	snapshots []model.FeedbackSnapshot
	// failAtRecord injects a storage error while persisting the record with
	// that index; -1 disables. Used to prove all-or-nothing behaviour.
	failAtRecord int
}

func newFakeResponseRepo(grants *fakeGrantRepo) *fakeResponseRepo {
	return &fakeResponseRepo{grants: grants, nextID: 100, failAtRecord: -1}
}

func (f *fakeResponseRepo) CreateSubmission(_ context.Context, grantID uint, records []repository.SubmissionRecord) ([]model.StudentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Stage everything first; nothing becomes visible unless the whole
	// submission, including the grant flip, succeeds.
	staged := make([]repository.SubmissionRecord, 0, len(records))
	created := make([]model.StudentResponse, 0, len(records))
	for i := range records {
		if f.failAtRecord >= 0 && i == f.failAtRecord {
			return nil, errors.New("simulated storage failure")
		}
		rec := records[i]
		f.nextID++
		rec.Response.ID = f.nextID
		rec.Snapshot.StudentResponseID = rec.Response.ID
		staged = append(staged, rec)
		created = append(created, rec.Response)
	}

	if !f.grants.tryConsume(grantID) {
		return nil, errdefs.ErrAlreadySubmitted
	}
	for _, rec := range staged {
		f.responses = append(f.responses, rec.Response)
		f.snapshots = append(f.snapshots, rec.Snapshot)
	}
	return created, nil
}

func (f *fakeResponseRepo) FindByFormID(_ context.Context, formID uint) ([]model.StudentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StudentResponse
	for _, r := range f.responses {
		if r.FeedbackFormID == formID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeResponseRepo) storedRows() ([]model.StudentResponse, []model.FeedbackSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.StudentResponse(nil), f.responses...),
		append([]model.FeedbackSnapshot(nil), f.snapshots...)
}

// --- snapshots (standalone, for report tests) ---

type fakeSnapshotRepo struct {
	rows []model.FeedbackSnapshot
}

func (f *fakeSnapshotRepo) FindByFormID(_ context.Context, formID uint) ([]model.FeedbackSnapshot, error) {
	var out []model.FeedbackSnapshot
	for _, s := range f.rows {
		if s.FeedbackFormID == formID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].QuestionID != out[j].QuestionID {
			return out[i].QuestionID < out[j].QuestionID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// --- students ---

type fakeStudentRepo struct {
	mu        sync.Mutex
	nextID    uint
	students  map[uint]model.Student
	overrides map[uint]model.OverrideStudent
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{
		nextID:    100,
		students:  make(map[uint]model.Student),
		overrides: make(map[uint]model.OverrideStudent),
	}
}

func (f *fakeStudentRepo) FindByIDWithAcademics(_ context.Context, id uint) (*model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := st
	return &out, nil
}

func (f *fakeStudentRepo) FindByDivision(_ context.Context, divisionID uint) ([]model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Student
	for _, st := range f.students {
		if st.DivisionID == divisionID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrollmentNo < out[j].EnrollmentNo })
	return out, nil
}

func (f *fakeStudentRepo) CreateOverride(_ context.Context, override *model.OverrideStudent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	override.ID = f.nextID
	f.overrides[override.ID] = *override
	return nil
}

func (f *fakeStudentRepo) FindOverrideByID(_ context.Context, id uint) (*model.OverrideStudent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.overrides[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := o
	return &out, nil
}

// --- academics ---

type fakeAcademicRepo struct {
	allocations map[uint]model.SubjectAllocation
	divisions   map[uint]model.Division
}

func newFakeAcademicRepo() *fakeAcademicRepo {
	return &fakeAcademicRepo{
		allocations: make(map[uint]model.SubjectAllocation),
		divisions:   make(map[uint]model.Division),
	}
}

func (f *fakeAcademicRepo) FindAllocationByID(_ context.Context, id uint) (*model.SubjectAllocation, error) {
	alloc, ok := f.allocations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := alloc
	return &out, nil
}

func (f *fakeAcademicRepo) FindDivisionChain(_ context.Context, id uint) (*model.Division, error) {
	division, ok := f.divisions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := division
	return &out, nil
}

// --- forms ---

type fakeFormRepo struct {
	mu        sync.Mutex
	nextID    uint
	forms     map[uint]*model.FeedbackForm
	order     []uint
	questions *fakeQuestionRepo
}

func newFakeFormRepo(questions *fakeQuestionRepo) *fakeFormRepo {
	return &fakeFormRepo{nextID: 100, forms: make(map[uint]*model.FeedbackForm), questions: questions}
}

func (f *fakeFormRepo) seed(form model.FeedbackForm) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := form
	c.Questions = nil
	f.forms[form.ID] = &c
	f.order = append(f.order, form.ID)
}

func (f *fakeFormRepo) Create(_ context.Context, form *model.FeedbackForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	form.ID = f.nextID
	form.CreatedAt = time.Now()
	f.questions.mu.Lock()
	for i := range form.Questions {
		form.Questions[i].FeedbackFormID = form.ID
		f.questions.insertLocked(&form.Questions[i])
	}
	f.questions.mu.Unlock()
	stored := *form
	stored.Questions = nil
	f.forms[form.ID] = &stored
	f.order = append(f.order, form.ID)
	return nil
}

func (f *fakeFormRepo) FindByID(_ context.Context, id uint) (*model.FeedbackForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	form, ok := f.forms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *form
	return &out, nil
}

func (f *fakeFormRepo) FindByIDWithQuestions(_ context.Context, id uint) (*model.FeedbackForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	form, ok := f.forms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *form
	f.questions.mu.Lock()
	out.Questions = f.questions.listByFormLocked(id)
	f.questions.mu.Unlock()
	return &out, nil
}

func (f *fakeFormRepo) FindAllByCollege(_ context.Context, collegeID uint) ([]repository.FormWithQuestionCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.FormWithQuestionCount
	// Newest first, like the real query's created_at DESC.
	for i := len(f.order) - 1; i >= 0; i-- {
		form, ok := f.forms[f.order[i]]
		if !ok || form.CollegeID != collegeID {
			continue
		}
		f.questions.mu.Lock()
		count := len(f.questions.listByFormLocked(form.ID))
		f.questions.mu.Unlock()
		out = append(out, repository.FormWithQuestionCount{FeedbackForm: *form, QuestionCount: count})
	}
	return out, nil
}

func (f *fakeFormRepo) Update(_ context.Context, form *model.FeedbackForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *form
	stored.Questions = nil
	f.forms[form.ID] = &stored
	return nil
}

func (f *fakeFormRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.forms, id)
	return nil
}

// --- categories ---

type fakeCategoryRepo struct {
	mu           sync.Mutex
	nextID       uint
	byID         map[uint]model.QuestionCategory
	findAllCalls int
	findOneCalls int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{nextID: 100, byID: make(map[uint]model.QuestionCategory)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *model.QuestionCategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	category.ID = f.nextID
	category.CreatedAt = time.Now()
	f.byID[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, id uint) (*model.QuestionCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findOneCalls++
	c, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := c
	return &out, nil
}

func (f *fakeCategoryRepo) FindAll(_ context.Context) ([]model.QuestionCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findAllCalls++
	out := make([]model.QuestionCategory, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category *model.QuestionCategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

// --- admin users ---

type fakeAdminUserRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]model.AdminUser
}

func newFakeAdminUserRepo() *fakeAdminUserRepo {
	return &fakeAdminUserRepo{nextID: 100, byID: make(map[uint]model.AdminUser)}
}

func (f *fakeAdminUserRepo) Create(_ context.Context, user *model.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeAdminUserRepo) FindByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAdminUserRepo) FindByID(_ context.Context, id uint) (*model.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := u
	return &out, nil
}

// --- mailer ---

type fakeMailer struct {
	mu     sync.Mutex
	sent   []mailer.Message
	failTo map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failTo: make(map[string]bool)}
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[msg.ToEmail] {
		return errors.New("mail provider unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) sentMessages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}
