package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/studsovet/selection_api/internal/apperr"
	"github.com/studsovet/selection_api/internal/model"
	"go.uber.org/zap"
)

// memStore — потокобезопасное in-memory хранилище расписания,
// повторяющее контрактное поведение репозиториев (конфликты, not-found,
// условный инкремент счётчика мест).
type memStore struct {
	mu           sync.Mutex
	users        map[int64]*model.User // по telegram_id
	days         map[int64]*model.InterviewDay
	slots        map[int64]*model.TimeSlot
	availability map[[2]int64]bool // (slot_id, interviewer_id)
	interviews   map[int64]*model.Interview // по user_id
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[int64]*model.User),
		days:         make(map[int64]*model.InterviewDay),
		slots:        make(map[int64]*model.TimeSlot),
		availability: make(map[[2]int64]bool),
		interviews:   make(map[int64]*model.Interview),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addUser(telegramID, facultyID int64) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &model.User{
		ID:         m.id(),
		TelegramID: telegramID,
		FirstName:  "Test",
		FacultyID:  &facultyID,
	}
	m.users[telegramID] = u
	return u
}

// UserDirectory

func (m *memStore) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[telegramID], nil
}

// UserStore / UserRegistry (обёртка из-за пересечения GetByID с DayStore)

type memUsers struct{ *memStore }

func (m memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.id()
	m.users[user.TelegramID] = user
	return nil
}

// DayStore

func (m *memStore) CreateWithSlots(_ context.Context, day *model.InterviewDay, slotTimes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.days {
		if d.FacultyID == day.FacultyID && d.Date.Equal(day.Date) {
			return apperr.Conflict("interview day for this date already exists")
		}
	}
	day.ID = m.id()
	day.IsActive = true
	m.days[day.ID] = day
	for _, t := range slotTimes {
		slot := &model.TimeSlot{ID: m.id(), DayID: day.ID, Time: t, IsActive: true}
		m.slots[slot.ID] = slot
	}
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*model.InterviewDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.days[id], nil
}

func (m *memStore) ListByFaculty(_ context.Context, facultyID int64) ([]*model.InterviewDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.InterviewDay
	for _, d := range m.days {
		if d.FacultyID == facultyID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) CountBookings(_ context.Context, dayID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, s := range m.slots {
		if s.DayID == dayID {
			total += s.CurrentParticipants
		}
	}
	return total, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.days[id]; !ok {
		return apperr.NotFound("interview day %d", id)
	}
	delete(m.days, id)
	for sid, s := range m.slots {
		if s.DayID == id {
			delete(m.slots, sid)
		}
	}
	return nil
}

func (m *memStore) SetActive(_ context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.days[id]; ok {
		d.IsActive = active
		return nil
	}
	return apperr.NotFound("interview day %d", id)
}

// SlotStore (обёртка нужна из-за пересечения имён методов с DayStore)

type memSlots struct{ *memStore }

func (m memSlots) GetByID(_ context.Context, id int64) (*model.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[id], nil
}

func (m memSlots) ListByDay(_ context.Context, dayID int64) ([]*model.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.TimeSlot
	for _, s := range m.slots {
		if s.DayID == dayID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memSlots) SetCapacity(_ context.Context, id int64, maxParticipants int) (*model.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok {
		return nil, apperr.NotFound("time slot %d", id)
	}
	if slot.CurrentParticipants > maxParticipants {
		return nil, apperr.Conflict("cannot set capacity below current bookings (%d)", slot.CurrentParticipants)
	}
	slot.MaxParticipants = maxParticipants
	return slot, nil
}

func (m memSlots) SetActive(_ context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok {
		return apperr.NotFound("time slot %d", id)
	}
	slot.IsActive = active
	return nil
}

// AvailabilityStore

type memAvailability struct{ *memStore }

func (m memAvailability) Mark(_ context.Context, slotID, interviewerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{slotID, interviewerID}
	if m.availability[key] {
		return false, nil
	}
	m.availability[key] = true
	return true, nil
}

func (m memAvailability) Unmark(_ context.Context, slotID, interviewerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{slotID, interviewerID}
	if !m.availability[key] {
		return false, nil
	}
	delete(m.availability, key)
	return true, nil
}

func (m memAvailability) ListBySlot(_ context.Context, slotID int64) ([]*model.SlotInterviewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.SlotInterviewer
	for key := range m.availability {
		if key[0] == slotID {
			out = append(out, &model.SlotInterviewer{ID: key[1], Name: "reviewer"})
		}
	}
	return out, nil
}

func (m memAvailability) ListSlotIDsForInterviewer(_ context.Context, facultyID, interviewerID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []int64
	for key := range m.availability {
		if key[1] != interviewerID {
			continue
		}
		slot, ok := m.slots[key[0]]
		if !ok {
			continue
		}
		if day, ok := m.days[slot.DayID]; ok && day.FacultyID == facultyID {
			out = append(out, key[0])
		}
	}
	return out, nil
}

// InterviewStore: проверка вместимости и инкремент под одним локом,
// как в транзакции репозитория.

type memInterviews struct{ *memStore }

func (m memInterviews) Book(_ context.Context, userID, slotID int64) (*model.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.interviews[userID]; ok && existing.TimeSlotID != nil {
		return nil, apperr.Conflict("you already have a booked slot")
	}

	slot, ok := m.slots[slotID]
	if !ok {
		return nil, apperr.NotFound("time slot %d", slotID)
	}
	day, ok := m.days[slot.DayID]
	if !ok || !day.IsActive || !slot.IsActive {
		return nil, apperr.Conflict("time slot is not active")
	}
	if slot.CurrentParticipants >= slot.MaxParticipants {
		return nil, apperr.Conflict("no places left in this slot")
	}

	slot.CurrentParticipants++
	interview := &model.Interview{
		ID:         m.id(),
		UserID:     userID,
		TimeSlotID: &slotID,
		Status:     model.InterviewStatusScheduled,
	}
	m.interviews[userID] = interview
	return interview, nil
}

func (m memInterviews) CancelBooking(_ context.Context, userID, slotID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	interview, ok := m.interviews[userID]
	if !ok || interview.TimeSlotID == nil || *interview.TimeSlotID != slotID {
		return apperr.NotFound("booking not found")
	}
	interview.TimeSlotID = nil
	interview.Status = model.InterviewStatusCancelled
	if slot, ok := m.slots[slotID]; ok && slot.CurrentParticipants > 0 {
		slot.CurrentParticipants--
	}
	return nil
}

func (m memInterviews) GetByUser(_ context.Context, userID int64) (*model.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interviews[userID], nil
}

func (m memInterviews) AssignInterviewer(_ context.Context, interviewID, interviewerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.interviews {
		if i.ID == interviewID {
			i.InterviewerID = &interviewerID
			return nil
		}
	}
	return apperr.NotFound("interview %d", interviewID)
}

// FacultyStore

type memFaculties struct {
	mu        sync.Mutex
	faculties map[int64]*model.Faculty
}

func newMemFaculties(faculties ...*model.Faculty) *memFaculties {
	m := &memFaculties{faculties: make(map[int64]*model.Faculty)}
	for _, f := range faculties {
		m.faculties[f.ID] = f
	}
	return m
}

func (m *memFaculties) GetByID(_ context.Context, id int64) (*model.Faculty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.faculties[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (m *memFaculties) UpdateStage(_ context.Context, faculty *model.Faculty) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.faculties[faculty.ID]
	if !ok {
		return apperr.NotFound("faculty %d", faculty.ID)
	}
	stored.CurrentStage = faculty.CurrentStage
	stored.StageStatus = faculty.StageStatus
	stored.StageOpenedAt = faculty.StageOpenedAt
	return nil
}

func (m *memFaculties) SetVideoSubmissionOpen(_ context.Context, facultyID int64, open bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.faculties[facultyID]
	if !ok {
		return apperr.NotFound("faculty %d", facultyID)
	}
	f.VideoSubmissionOpen = open
	return nil
}

func (m *memFaculties) SetVideoChatID(_ context.Context, facultyID int64, chatID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.faculties[facultyID]
	if !ok {
		return apperr.NotFound("faculty %d", facultyID)
	}
	f.VideoChatID = chatID
	return nil
}

func (m *memFaculties) List(_ context.Context) ([]*model.Faculty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Faculty, 0, len(m.faculties))
	for _, f := range m.faculties {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFaculties) Create(_ context.Context, faculty *model.Faculty) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var maxID int64
	for id := range m.faculties {
		if id > maxID {
			maxID = id
		}
	}
	faculty.ID = maxID + 1
	faculty.CurrentStage = model.StageQuestionnaire
	faculty.StageStatus = model.StageStatusNotStarted
	m.faculties[faculty.ID] = faculty
	return nil
}

// TemplateStore

type memTemplates struct {
	templates []*model.StageTemplate
}

func (m *memTemplates) GetActive(_ context.Context, facultyID int64, stage model.StageType) (*model.StageTemplate, error) {
	for _, t := range m.templates {
		if t.FacultyID == facultyID && t.StageType == stage && t.IsActive {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTemplates) GetByID(_ context.Context, id int64) (*model.StageTemplate, error) {
	for _, t := range m.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTemplates) Create(_ context.Context, template *model.StageTemplate) error {
	for _, t := range m.templates {
		if t.FacultyID == template.FacultyID && t.StageType == template.StageType {
			t.IsActive = false
		}
	}
	template.ID = int64(len(m.templates) + 1)
	template.IsActive = true
	m.templates = append(m.templates, template)
	return nil
}

// SubmissionStore

type memSubmissions struct {
	mu         sync.Mutex
	nextID     int64
	submitted  map[[2]int64]*model.Questionnaire // (user_id, faculty_id)
	progresses map[[2]int64]*model.UserProgress
}

func newMemSubmissions() *memSubmissions {
	return &memSubmissions{
		submitted:  make(map[[2]int64]*model.Questionnaire),
		progresses: make(map[[2]int64]*model.UserProgress),
	}
}

func (m *memSubmissions) CreateSubmission(_ context.Context, q *model.Questionnaire) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{q.UserID, q.FacultyID}
	if _, ok := m.submitted[key]; ok {
		return apperr.Conflict("questionnaire already submitted")
	}
	m.nextID++
	q.ID = m.nextID
	q.SubmittedAt = time.Now()
	m.submitted[key] = q
	m.progresses[key] = &model.UserProgress{
		UserID:    q.UserID,
		FacultyID: q.FacultyID,
		StageType: model.StageQuestionnaire,
		Status:    model.SubmissionSubmitted,
	}
	return nil
}

func (m *memSubmissions) GetByUserAndFaculty(_ context.Context, userID, facultyID int64) (*model.Questionnaire, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitted[[2]int64{userID, facultyID}], nil
}

func (m *memSubmissions) GetProgress(_ context.Context, userID, facultyID int64, _ model.StageType) (*model.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progresses[[2]int64{userID, facultyID}], nil
}

// DraftKeeper

type memDrafts struct {
	mu     sync.Mutex
	drafts map[[2]int64]*model.Draft
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: make(map[[2]int64]*model.Draft)}
}

func (m *memDrafts) Save(_ context.Context, telegramID, facultyID, templateID int64, answers map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[[2]int64{telegramID, facultyID}] = &model.Draft{
		TemplateID: templateID,
		Answers:    answers,
		UpdatedAt:  time.Now(),
	}
	return nil
}

func (m *memDrafts) Get(_ context.Context, telegramID, facultyID int64) (*model.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drafts[[2]int64{telegramID, facultyID}], nil
}

func (m *memDrafts) Delete(_ context.Context, telegramID, facultyID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{telegramID, facultyID}
	if _, ok := m.drafts[key]; !ok {
		return false, nil
	}
	delete(m.drafts, key)
	return true, nil
}

// Хелперы сборки

func testLogger() *zap.Logger { return zap.NewNop() }

func (m *memStore) addDayWithSlot(facultyID int64, date time.Time, capacity int) (*model.InterviewDay, *model.TimeSlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := &model.InterviewDay{ID: m.id(), FacultyID: facultyID, Date: date, IsActive: true}
	m.days[day.ID] = day
	slot := &model.TimeSlot{
		ID:              m.id(),
		DayID:           day.ID,
		Time:            "12:00",
		MaxParticipants: capacity,
		IsActive:        true,
	}
	m.slots[slot.ID] = slot
	return day, slot
}
