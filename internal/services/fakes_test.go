package services

import (
	"context"
	"fmt"
	"time"

	"grouptee/internal/domain"
)

// In-memory fakes shared by the service tests. Each fake exposes an err field
// that, when set, is returned by every method.

type fakeGroupRepo struct {
	groups map[string]*domain.Group
	err    error
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*domain.Group)}
}

func (f *fakeGroupRepo) Create(_ context.Context, g *domain.Group) error {
	if f.err != nil {
		return f.err
	}
	if g.ID == "" {
		g.ID = fmt.Sprintf("group-%d", len(f.groups)+1)
	}
	f.groups[g.ID] = g
	return nil
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id string) (*domain.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	g, ok := f.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func (f *fakeGroupRepo) ListByUserID(_ context.Context, _ string) ([]*domain.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Group, 0, len(f.groups))
	for _, g := range f.groups {
		out = append(out, g)
	}
	return out, nil
}

type fakeMembershipRepo struct {
	memberships []*domain.Membership
	err         error
}

func (f *fakeMembershipRepo) Add(_ context.Context, m *domain.Membership) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.memberships {
		if existing.GroupID == m.GroupID && existing.UserID == m.UserID {
			return domain.ErrAlreadyMember
		}
	}
	if m.ID == "" {
		m.ID = fmt.Sprintf("membership-%d", len(f.memberships)+1)
	}
	f.memberships = append(f.memberships, m)
	return nil
}

func (f *fakeMembershipRepo) GetByGroupAndUser(_ context.Context, groupID, userID string) (*domain.Membership, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range f.memberships {
		if m.GroupID == groupID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMembershipRepo) ListByGroupID(_ context.Context, groupID string) ([]*domain.Membership, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Membership
	for _, m := range f.memberships {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) Remove(_ context.Context, groupID, userID string) error {
	if f.err != nil {
		return f.err
	}
	for i, m := range f.memberships {
		if m.GroupID == groupID && m.UserID == userID {
			f.memberships = append(f.memberships[:i], f.memberships[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeClubAdminRepo struct {
	admins map[string]bool // clubID + "/" + userID
	err    error
}

func newFakeClubAdminRepo() *fakeClubAdminRepo {
	return &fakeClubAdminRepo{admins: make(map[string]bool)}
}

func (f *fakeClubAdminRepo) Add(_ context.Context, clubID, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.admins[clubID+"/"+userID] = true
	return nil
}

func (f *fakeClubAdminRepo) IsClubAdmin(_ context.Context, clubID, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.admins[clubID+"/"+userID], nil
}

type fakeProfileRepo struct {
	profiles map[string]*domain.Profile
	err      error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	if f.err != nil {
		return f.err
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("user-%d", len(f.profiles)+1)
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *domain.Profile) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.profiles[p.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.profiles[p.ID] = p
	return nil
}

func interestKey(userID string, date time.Time) string {
	return userID + "/" + date.Format("2006-01-02")
}

type fakeInterestRepo struct {
	records map[string]*domain.Interest
	err     error
}

func newFakeInterestRepo() *fakeInterestRepo {
	return &fakeInterestRepo{records: make(map[string]*domain.Interest)}
}

func (f *fakeInterestRepo) Upsert(_ context.Context, i *domain.Interest) error {
	if f.err != nil {
		return f.err
	}
	f.records[interestKey(i.UserID, i.InterestDate)] = i
	return nil
}

func (f *fakeInterestRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*domain.Interest, error) {
	if f.err != nil {
		return nil, f.err
	}
	i, ok := f.records[interestKey(userID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return i, nil
}

func (f *fakeInterestRepo) ListByUserAndRange(_ context.Context, userID string, from, to time.Time) ([]*domain.Interest, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Interest
	for _, i := range f.records {
		if i.UserID == userID && !i.InterestDate.Before(from) && !i.InterestDate.After(to) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeInterestRepo) ListWantingToPlay(_ context.Context, date time.Time) ([]*domain.Interest, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Interest
	for _, i := range f.records {
		if i.InterestDate.Equal(date) && i.WantsToPlay == domain.PlayIntentYes {
			out = append(out, i)
		}
	}
	return out, nil
}

type fakeWeekendRepo struct {
	weekends map[string]*domain.Weekend
	err      error
}

func newFakeWeekendRepo() *fakeWeekendRepo {
	return &fakeWeekendRepo{weekends: make(map[string]*domain.Weekend)}
}

func (f *fakeWeekendRepo) Create(_ context.Context, w *domain.Weekend) error {
	if f.err != nil {
		return f.err
	}
	if w.ID == "" {
		w.ID = fmt.Sprintf("weekend-%d", len(f.weekends)+1)
	}
	f.weekends[w.ID] = w
	return nil
}

func (f *fakeWeekendRepo) GetByID(_ context.Context, id string) (*domain.Weekend, error) {
	if f.err != nil {
		return nil, f.err
	}
	w, ok := f.weekends[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

func (f *fakeWeekendRepo) ListUpcomingByGroupID(_ context.Context, groupID string, from time.Time) ([]*domain.Weekend, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Weekend
	for _, w := range f.weekends {
		if w.GroupID == groupID && !w.EndDate.Before(from) {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeTeeTimeRepo struct {
	teeTimes map[string]*domain.TeeTime
	err      error
}

func newFakeTeeTimeRepo() *fakeTeeTimeRepo {
	return &fakeTeeTimeRepo{teeTimes: make(map[string]*domain.TeeTime)}
}

func (f *fakeTeeTimeRepo) Create(_ context.Context, t *domain.TeeTime) error {
	if f.err != nil {
		return f.err
	}
	if t.ID == "" {
		t.ID = fmt.Sprintf("teetime-%d", len(f.teeTimes)+1)
	}
	f.teeTimes[t.ID] = t
	return nil
}

func (f *fakeTeeTimeRepo) GetByID(_ context.Context, id string) (*domain.TeeTime, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.teeTimes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeTeeTimeRepo) ListByWeekendID(_ context.Context, weekendID string) ([]*domain.TeeTime, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.TeeTime
	for _, t := range f.teeTimes {
		if t.WeekendID == weekendID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeeTimeRepo) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.teeTimes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.teeTimes, id)
	return nil
}

// fakeAssignmentRepo enforces the capacity invariant the way the real
// repository does, using the capacity map when a tee time is registered there.
// createErrs is a per-call error queue for failure-injection tests.
type fakeAssignmentRepo struct {
	assignments []*domain.Assignment
	capacity    map[string]int // teeTimeID -> max players
	teeDates    map[string]time.Time
	createErrs  []error
	err         error
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		capacity: make(map[string]int),
		teeDates: make(map[string]time.Time),
	}
}

func (f *fakeAssignmentRepo) nextCreateErr() error {
	if len(f.createErrs) == 0 {
		return nil
	}
	err := f.createErrs[0]
	f.createErrs = f.createErrs[1:]
	return err
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a *domain.Assignment) error {
	if f.err != nil {
		return f.err
	}
	if err := f.nextCreateErr(); err != nil {
		return err
	}
	if max, ok := f.capacity[a.TeeTimeID]; ok {
		used := 0
		for _, existing := range f.assignments {
			if existing.TeeTimeID == a.TeeTimeID {
				used += existing.Spots()
			}
		}
		if used+a.Spots() > max {
			return domain.ErrCapacityExceeded
		}
	}
	if a.ID == "" {
		a.ID = fmt.Sprintf("assignment-%d", len(f.assignments)+1)
	}
	f.assignments = append(f.assignments, a)
	return nil
}

func (f *fakeAssignmentRepo) ListByTeeTimeID(_ context.Context, teeTimeID string) ([]*domain.Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Assignment
	for _, a := range f.assignments {
		if a.TeeTimeID == teeTimeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListByDate(_ context.Context, _ string, date time.Time) ([]*domain.Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Assignment
	for _, a := range f.assignments {
		if d, ok := f.teeDates[a.TeeTimeID]; ok && d.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) CountByTeeTimeID(_ context.Context, teeTimeID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, a := range f.assignments {
		if a.TeeTimeID == teeTimeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAssignmentRepo) DeleteByUser(_ context.Context, teeTimeID, userID string) error {
	if f.err != nil {
		return f.err
	}
	for i, a := range f.assignments {
		if a.TeeTimeID == teeTimeID && a.UserID != nil && *a.UserID == userID {
			f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAssignmentRepo) DeleteByInvitation(_ context.Context, teeTimeID, invitationID string) error {
	if f.err != nil {
		return f.err
	}
	for i, a := range f.assignments {
		if a.TeeTimeID == teeTimeID && a.InvitationID != nil && *a.InvitationID == invitationID {
			f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeInvitationRepo struct {
	invitations map[string]*domain.Invitation
	createCalls int
	claimCalls  int
	createErrs  []error
	err         error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]*domain.Invitation)}
}

func (f *fakeInvitationRepo) Create(_ context.Context, inv *domain.Invitation) error {
	f.createCalls++
	if f.err != nil {
		return f.err
	}
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range f.invitations {
		if existing.Code == inv.Code {
			return domain.ErrDuplicateCode
		}
	}
	if inv.ID == "" {
		inv.ID = fmt.Sprintf("inv-%d", len(f.invitations)+1)
	}
	f.invitations[inv.ID] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByID(_ context.Context, id string) (*domain.Invitation, error) {
	if f.err != nil {
		return nil, f.err
	}
	inv, ok := f.invitations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvitationRepo) GetByCode(_ context.Context, code string) (*domain.Invitation, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, inv := range f.invitations {
		if inv.Code == code {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) ListUnclaimedByGroupID(_ context.Context, groupID string, typ domain.InvitationType) ([]*domain.Invitation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Invitation
	for _, inv := range f.invitations {
		if inv.Type == typ && inv.GroupID != nil && *inv.GroupID == groupID && !inv.Claimed() {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) ListByGroupID(_ context.Context, groupID, _ string, _ domain.PaginationParams) ([]*domain.Invitation, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []*domain.Invitation
	for _, inv := range f.invitations {
		if inv.GroupID != nil && *inv.GroupID == groupID {
			out = append(out, inv)
		}
	}
	return out, len(out), nil
}

func (f *fakeInvitationRepo) Claim(_ context.Context, code, userID string) (*domain.Invitation, error) {
	f.claimCalls++
	if f.err != nil {
		return nil, f.err
	}
	for _, inv := range f.invitations {
		if inv.Code != code {
			continue
		}
		if inv.Claimed() {
			return nil, domain.ErrInvitationClaimed
		}
		if inv.Expired(time.Now()) {
			return nil, domain.ErrInvitationExpired
		}
		now := time.Now()
		inv.ClaimedBy = &userID
		inv.ClaimedAt = &now
		return inv, nil
	}
	return nil, domain.ErrNotFound
}
