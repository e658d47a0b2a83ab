package service

import (
	"KeyVault/internal/access"
	"KeyVault/internal/crypto"
	"KeyVault/internal/model"
	"KeyVault/internal/repo"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memProjectRepo — хранилище проектов в памяти. Отдаёт и принимает копии агрегата.
type memProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*model.Project
	nextAct  int64
	saveErr  error
	saves    int
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[string]*model.Project{}}
}

func cloneProject(p *model.Project) *model.Project {
	c := *p
	c.Members = append([]model.Member(nil), p.Members...)
	c.Keys = append([]model.Key(nil), p.Keys...)
	c.Activity = append([]model.Activity(nil), p.Activity...)
	return &c
}

func (r *memProjectRepo) stamp(p *model.Project) {
	for i := range p.Activity {
		if p.Activity[i].ID == 0 {
			r.nextAct++
			p.Activity[i].ID = r.nextAct
			p.Activity[i].ProjectID = p.ID
		}
	}
}

func (r *memProjectRepo) Create(_ context.Context, p *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamp(p)
	r.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneProject(p), nil
}

func (r *memProjectRepo) Save(_ context.Context, p *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.projects[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.saves++
	r.stamp(p)
	r.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *memProjectRepo) ListForUser(_ context.Context, userID int64) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Project
	for _, p := range r.projects {
		m, _ := p.FindMember(userID)
		if p.OwnerID == userID || (m != nil && m.Status == model.MemberAccepted) {
			out = append(out, *cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProjectRepo) ListPendingInvites(_ context.Context, userID int64) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Project
	for _, p := range r.projects {
		if m, _ := p.FindMember(userID); m != nil && m.Status == model.MemberPending {
			out = append(out, *cloneProject(p))
		}
	}
	return out, nil
}

func (r *memProjectRepo) RecentActivity(_ context.Context, userID int64, limit int) ([]repo.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []repo.ActivityEntry{}
	for _, p := range r.projects {
		for _, a := range p.Activity {
			if a.UserID == userID {
				out = append(out, repo.ActivityEntry{Activity: a, ProjectName: p.Name})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// stored возвращает сохранённое состояние проекта.
func (r *memProjectRepo) stored(t *testing.T, id string) *model.Project {
	t.Helper()
	p, err := r.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

var _ repo.ProjectRepository = (*memProjectRepo)(nil)

var (
	owner    = &model.User{ID: 1, Username: "owner"}
	editor   = &model.User{ID: 2, Username: "editor"}
	viewer   = &model.User{ID: 3, Username: "viewer"}
	invitee  = &model.User{ID: 4, Username: "invitee"}
	stranger = &model.User{ID: 5, Username: "stranger"}
)

type fixture struct {
	svc      *ProjectService
	projects *memProjectRepo
	users    *mockUserRepo
	cipher   *crypto.Cipher
	project  *model.Project
}

// newFixture создаёт командный проект владельца с принятыми editor и viewer
// и неподтверждённым приглашением invitee.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := crypto.NewCipher([]byte("test-master-secret"))
	require.NoError(t, err)
	projects := newMemProjectRepo()
	users := new(mockUserRepo)
	svc := NewProjectService(projects, users, c, zap.NewNop().Sugar())

	ctx := context.Background()
	p, err := svc.CreateProject(ctx, owner, NewProject{Name: "Payments", Access: model.AccessTeam})
	require.NoError(t, err)

	stored := projects.stored(t, p.ID)
	stored.Members = []model.Member{
		{ProjectID: p.ID, UserID: editor.ID, User: editor, Role: model.MemberEditor, Status: model.MemberAccepted},
		{ProjectID: p.ID, UserID: viewer.ID, User: viewer, Role: model.MemberViewer, Status: model.MemberAccepted},
		{ProjectID: p.ID, UserID: invitee.ID, User: invitee, Role: model.MemberEditor, Status: model.MemberPending},
	}
	require.NoError(t, projects.Save(ctx, stored))

	return &fixture{svc: svc, projects: projects, users: users, cipher: c, project: stored}
}

func TestCreateProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("owner is not stored as member", func(t *testing.T) {
		p, err := f.svc.CreateProject(ctx, editor, NewProject{Name: "  Infra  ", Description: "ops"})
		require.NoError(t, err)
		assert.Equal(t, "Infra", p.Name)
		assert.Equal(t, model.AccessPersonal, p.Access)
		assert.Equal(t, model.ProjectActive, p.Status)

		stored := f.projects.stored(t, p.ID)
		assert.Equal(t, editor.ID, stored.OwnerID)
		assert.Empty(t, stored.Members)
		if assert.Len(t, stored.Activity, 1) {
			assert.Equal(t, `editor created project "Infra"`, stored.Activity[0].Message)
		}
		assert.Equal(t, access.RoleOwner, access.EffectiveRole(stored, editor.ID))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.svc.CreateProject(ctx, owner, NewProject{Name: "ab"})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.CreateProject(ctx, owner, NewProject{Name: "abc", Access: "public"})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.CreateProject(ctx, owner, NewProject{Name: "abc", Status: "archived"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.svc.CreateProject(ctx, nil, NewProject{Name: "abc"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestListProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "DB", Label: "DB_PASSWORD", Value: "pw"})
	require.NoError(t, err)

	list, err := f.svc.ListProjects(ctx, viewer)
	require.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, 1, list[0].KeyCount)
		assert.Equal(t, access.RoleViewer, list[0].Role)
		assert.Nil(t, list[0].Keys)
	}

	// приглашённый проект в списке не видит
	list, err = f.svc.ListProjects(ctx, invitee)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.ListProjects(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAddKey_StoresEnvelope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := len(f.project.Activity)

	k, err := f.svc.AddKey(ctx, editor, f.project.ID, NewKey{Name: "Stripe", Label: "STRIPE_KEY", Value: "sk_live_123"})
	require.NoError(t, err)
	assert.Equal(t, "sk_live_123", k.Value)
	assert.Equal(t, model.KeySecret, k.Type)

	stored := f.projects.stored(t, f.project.ID)
	require.Len(t, stored.Keys, 1)
	assert.NotEqual(t, "sk_live_123", stored.Keys[0].Value)
	assert.True(t, isEnvelope(stored.Keys[0].Value))
	plain, err := f.cipher.Open(stored.Keys[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_123", plain)

	require.Len(t, stored.Activity, before+1)
	last := stored.Activity[len(stored.Activity)-1]
	assert.Equal(t, `editor added a new key "Stripe"`, last.Message)
	assert.Equal(t, editor.ID, last.UserID)
}

func TestAddKey_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "", Label: "X", Value: "v"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "X", Label: "X", Value: "v", Type: "password"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "A", Label: "A", Value: ""})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.projects.stored(t, f.project.ID).Keys)
	_, err = f.svc.AddKey(ctx, owner, "missing", NewKey{Name: "X", Label: "X", Value: "v"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoleMatrix_Enforced(t *testing.T) {
	ctx := context.Background()
	newKey := NewKey{Name: "K", Label: "K", Value: "v"}

	type op struct {
		name   string
		action access.Action
		run    func(f *fixture, actor *model.User, keyID string) error
	}
	ops := []op{
		{"view", access.ViewProject, func(f *fixture, a *model.User, _ string) error {
			_, err := f.svc.GetProject(ctx, a, f.project.ID)
			return err
		}},
		{"list keys", access.ListKeys, func(f *fixture, a *model.User, _ string) error {
			_, err := f.svc.ListKeys(ctx, a, f.project.ID)
			return err
		}},
		{"create key", access.CreateKey, func(f *fixture, a *model.User, _ string) error {
			_, err := f.svc.AddKey(ctx, a, f.project.ID, newKey)
			return err
		}},
		{"update key", access.UpdateKey, func(f *fixture, a *model.User, keyID string) error {
			v := "new"
			_, err := f.svc.UpdateKey(ctx, a, f.project.ID, keyID, KeyUpdate{Value: &v})
			return err
		}},
		{"delete key", access.DeleteKey, func(f *fixture, a *model.User, keyID string) error {
			return f.svc.DeleteKey(ctx, a, f.project.ID, keyID)
		}},
		{"change role", access.ChangeMemberRole, func(f *fixture, a *model.User, _ string) error {
			_, err := f.svc.ChangeMemberRole(ctx, a, f.project.ID, invitee.ID, model.MemberViewer)
			return err
		}},
		{"remove member", access.RemoveMember, func(f *fixture, a *model.User, _ string) error {
			return f.svc.RemoveMember(ctx, a, f.project.ID, invitee.ID)
		}},
		{"edit project", access.EditProject, func(f *fixture, a *model.User, _ string) error {
			name := "Renamed"
			_, err := f.svc.UpdateProjectSettings(ctx, a, f.project.ID, ProjectSettings{Name: &name})
			return err
		}},
		{"delete project", access.DeleteProject, func(f *fixture, a *model.User, _ string) error {
			return f.svc.DeleteProject(ctx, a, f.project.ID)
		}},
		{"leave", access.LeaveProject, func(f *fixture, a *model.User, _ string) error {
			return f.svc.LeaveProject(ctx, a, f.project.ID)
		}},
	}
	actors := map[access.Role]*model.User{
		access.RoleOwner:  owner,
		access.RoleEditor: editor,
		access.RoleViewer: viewer,
		access.RoleNone:   stranger,
	}

	for _, o := range ops {
		for role, actor := range actors {
			t.Run(o.name+"/"+role.String(), func(t *testing.T) {
				f := newFixture(t)
				k, err := f.svc.AddKey(ctx, owner, f.project.ID, newKey)
				require.NoError(t, err)

				err = o.run(f, actor, k.ID)
				if access.Can(role, o.action) {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, ErrForbidden)
				}
			})
		}
	}
}

func TestInviteMember(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetUserByLogin", mock.Anything, "stranger").Return(stranger, nil).Once()

		m, err := f.svc.InviteMember(ctx, owner, f.project.ID, "stranger", model.MemberViewer, "welcome")
		require.NoError(t, err)
		assert.Equal(t, model.MemberPending, m.Status)
		assert.Equal(t, "stranger", m.User.Username)

		stored := f.projects.stored(t, f.project.ID)
		sm, _ := stored.FindMember(stranger.ID)
		require.NotNil(t, sm)
		assert.Equal(t, "welcome", sm.Message)
		// приглашения в журнал не пишутся
		assert.Len(t, stored.Activity, len(f.project.Activity))
		f.users.AssertExpectations(t)
	})

	t.Run("existing membership of any status conflicts", func(t *testing.T) {
		f := newFixture(t)
		for _, u := range []*model.User{editor, invitee, owner} {
			f.users.On("GetUserByLogin", mock.Anything, u.Username).Return(u, nil).Once()
			_, err := f.svc.InviteMember(ctx, owner, f.project.ID, u.Username, model.MemberEditor, "")
			assert.ErrorIs(t, err, ErrConflict, u.Username)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetUserByLogin", mock.Anything, "ghost").Return((*model.User)(nil), gorm.ErrRecordNotFound).Once()
		_, err := f.svc.InviteMember(ctx, owner, f.project.ID, "ghost", model.MemberEditor, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("only owner", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.InviteMember(ctx, editor, f.project.ID, "stranger", model.MemberEditor, "")
		assert.ErrorIs(t, err, ErrForbidden)
		f.users.AssertNotCalled(t, "GetUserByLogin", mock.Anything, mock.Anything)
	})

	t.Run("validation and personal project", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.InviteMember(ctx, owner, f.project.ID, " ", model.MemberEditor, "")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.InviteMember(ctx, owner, f.project.ID, "stranger", "admin", "")
		assert.ErrorIs(t, err, ErrValidation)

		personal, err := f.svc.CreateProject(ctx, owner, NewProject{Name: "Mine"})
		require.NoError(t, err)
		_, err = f.svc.InviteMember(ctx, owner, personal.ID, "stranger", model.MemberEditor, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRespondToInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("accept grants access", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ListKeys(ctx, invitee, f.project.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		require.NoError(t, f.svc.RespondToInvite(ctx, invitee, f.project.ID, InviteAccept))
		stored := f.projects.stored(t, f.project.ID)
		m, _ := stored.FindMember(invitee.ID)
		require.NotNil(t, m)
		assert.Equal(t, model.MemberAccepted, m.Status)

		_, err = f.svc.ListKeys(ctx, invitee, f.project.ID)
		assert.NoError(t, err)

		// повторный ответ: приглашения уже нет
		assert.ErrorIs(t, f.svc.RespondToInvite(ctx, invitee, f.project.ID, InviteAccept), ErrNotFound)
	})

	t.Run("reject removes membership", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.RespondToInvite(ctx, invitee, f.project.ID, InviteReject))
		m, _ := f.projects.stored(t, f.project.ID).FindMember(invitee.ID)
		assert.Nil(t, m)
	})

	t.Run("no pending invite", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.svc.RespondToInvite(ctx, stranger, f.project.ID, InviteAccept), ErrNotFound)
		assert.ErrorIs(t, f.svc.RespondToInvite(ctx, editor, f.project.ID, InviteReject), ErrNotFound)
		assert.ErrorIs(t, f.svc.RespondToInvite(ctx, invitee, f.project.ID, "maybe"), ErrValidation)
		assert.ErrorIs(t, f.svc.RespondToInvite(ctx, nil, f.project.ID, InviteAccept), ErrUnauthorized)
	})
}

func TestChangeMemberRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.ChangeMemberRole(ctx, owner, f.project.ID, viewer.ID, model.MemberEditor)
	require.NoError(t, err)
	assert.Equal(t, model.MemberEditor, m.Role)

	// повышенный участник может добавлять ключи
	_, err = f.svc.AddKey(ctx, viewer, f.project.ID, NewKey{Name: "K", Label: "K", Value: "v"})
	assert.NoError(t, err)

	// роль меняется и у неподтверждённого приглашения
	m, err = f.svc.ChangeMemberRole(ctx, owner, f.project.ID, invitee.ID, model.MemberViewer)
	require.NoError(t, err)
	assert.Equal(t, model.MemberPending, m.Status)

	_, err = f.svc.ChangeMemberRole(ctx, owner, f.project.ID, stranger.ID, model.MemberViewer)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.ChangeMemberRole(ctx, owner, f.project.ID, viewer.ID, "owner")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoveMember_LosesAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RemoveMember(ctx, owner, f.project.ID, editor.ID))

	_, err := f.svc.ListKeys(ctx, editor, f.project.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.AddKey(ctx, editor, f.project.ID, NewKey{Name: "K", Label: "K", Value: "v"})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, f.svc.RemoveMember(ctx, owner, f.project.ID, editor.ID), ErrNotFound)

	stored := f.projects.stored(t, f.project.ID)
	last := stored.Activity[len(stored.Activity)-1]
	assert.Equal(t, "owner removed editor from the project", last.Message)
}

func TestLeaveProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.LeaveProject(ctx, owner, f.project.ID), ErrForbidden)
	assert.ErrorIs(t, f.svc.LeaveProject(ctx, invitee, f.project.ID), ErrForbidden)

	require.NoError(t, f.svc.LeaveProject(ctx, viewer, f.project.ID))
	m, _ := f.projects.stored(t, f.project.ID).FindMember(viewer.ID)
	assert.Nil(t, m)

	_, err := f.svc.GetProject(ctx, viewer, f.project.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	k, err := f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "DB", Label: "DB_PASSWORD", Value: "old"})
	require.NoError(t, err)
	oldStored := f.projects.stored(t, f.project.ID).Keys[0].Value

	name, value := "Database", "new"
	got, err := f.svc.UpdateKey(ctx, editor, f.project.ID, k.ID, KeyUpdate{Name: &name, Value: &value})
	require.NoError(t, err)
	assert.Equal(t, "Database", got.Name)
	assert.Equal(t, "new", got.Value)

	stored := f.projects.stored(t, f.project.ID)
	assert.NotEqual(t, oldStored, stored.Keys[0].Value)
	assert.True(t, isEnvelope(stored.Keys[0].Value))
	assert.Equal(t, `editor updated a key "Database"`, stored.Activity[len(stored.Activity)-1].Message)

	// без нового значения конверт не меняется
	desc := "primary"
	_, err = f.svc.UpdateKey(ctx, editor, f.project.ID, k.ID, KeyUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, stored.Keys[0].Value, f.projects.stored(t, f.project.ID).Keys[0].Value)

	// пустое значение не принимается
	empty := ""
	_, err = f.svc.UpdateKey(ctx, editor, f.project.ID, k.ID, KeyUpdate{Value: &empty})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, stored.Keys[0].Value, f.projects.stored(t, f.project.ID).Keys[0].Value)

	_, err = f.svc.UpdateKey(ctx, editor, f.project.ID, "missing", KeyUpdate{Value: &value})
	assert.ErrorIs(t, err, ErrNotFound)
	// права проверяются раньше существования ключа
	_, err = f.svc.UpdateKey(ctx, viewer, f.project.ID, "missing", KeyUpdate{Value: &value})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	k, err := f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "DB", Label: "DB_PASSWORD", Value: "pw"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteKey(ctx, editor, f.project.ID, k.ID))
	stored := f.projects.stored(t, f.project.ID)
	assert.Empty(t, stored.Keys)
	assert.Equal(t, "editor deleted a key DB", stored.Activity[len(stored.Activity)-1].Message)

	assert.ErrorIs(t, f.svc.DeleteKey(ctx, editor, f.project.ID, k.ID), ErrNotFound)
}

func TestListKeys_IntegrityFailureIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "A", Label: "A", Value: "alpha"})
	require.NoError(t, err)
	_, err = f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "B", Label: "B", Value: "beta"})
	require.NoError(t, err)

	// ключ, зашифрованный чужим мастер-секретом, и старая запись в открытом виде
	other, err := crypto.NewCipher([]byte("another-master"))
	require.NoError(t, err)
	foreign, err := other.Seal("gamma")
	require.NoError(t, err)
	stored := f.projects.stored(t, f.project.ID)
	stored.Keys[1].Value = foreign
	stored.Keys = append(stored.Keys, model.Key{ID: "legacy", Name: "L", Label: "L", Value: "plain-legacy", Type: model.KeyEnv})
	require.NoError(t, f.projects.Save(ctx, stored))

	keys, err := f.svc.ListKeys(ctx, viewer, f.project.ID)
	require.NoError(t, err)
	require.Len(t, keys, 3)

	assert.Equal(t, "alpha", keys[0].Value)
	assert.False(t, keys[0].Inaccessible)

	assert.Empty(t, keys[1].Value)
	assert.True(t, keys[1].Inaccessible)

	assert.Equal(t, "plain-legacy", keys[2].Value)
	assert.False(t, keys[2].Inaccessible)
}

func TestGetProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "A", Label: "A", Value: "alpha"})
	require.NoError(t, err)

	view, err := f.svc.GetProject(ctx, editor, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, access.RoleEditor, view.Role)
	assert.Equal(t, editor.ID, view.CurrentUserID)
	if assert.Len(t, view.Keys, 1) {
		assert.Equal(t, "alpha", view.Keys[0].Value)
	}
	assert.Nil(t, view.Project.Keys)

	_, err = f.svc.GetProject(ctx, nil, f.project.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.svc.GetProject(ctx, owner, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.GetProject(ctx, owner, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProjectSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	name, status := "  Billing ", model.ProjectClosed
	p, err := f.svc.UpdateProjectSettings(ctx, owner, f.project.ID, ProjectSettings{Name: &name, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Billing", p.Name)

	stored := f.projects.stored(t, f.project.ID)
	assert.Equal(t, "Billing", stored.Name)
	assert.Equal(t, model.ProjectClosed, stored.Status)
	assert.Equal(t, model.AccessTeam, stored.Access)

	short := "x"
	_, err = f.svc.UpdateProjectSettings(ctx, owner, f.project.ID, ProjectSettings{Name: &short})
	assert.ErrorIs(t, err, ErrValidation)
	bad := model.Access("public")
	_, err = f.svc.UpdateProjectSettings(ctx, owner, f.project.ID, ProjectSettings{Access: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteProject(ctx, owner, f.project.ID))
	_, err := f.projects.GetByID(ctx, f.project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, f.svc.DeleteProject(ctx, owner, f.project.ID), ErrNotFound)
}

func TestListInvites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	invites, err := f.svc.ListInvites(ctx, invitee)
	require.NoError(t, err)
	if assert.Len(t, invites, 1) {
		assert.Equal(t, f.project.ID, invites[0].ProjectID)
		assert.Equal(t, "Payments", invites[0].Name)
		assert.Equal(t, model.MemberEditor, invites[0].Role)
		assert.Equal(t, model.MemberPending, invites[0].Status)
	}

	invites, err = f.svc.ListInvites(ctx, editor)
	require.NoError(t, err)
	assert.Empty(t, invites)
}

func TestActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddKey(ctx, editor, f.project.ID, NewKey{Name: "A", Label: "A", Value: "alpha"})
	require.NoError(t, err)

	acts, err := f.svc.ListActivity(ctx, viewer, f.project.ID)
	require.NoError(t, err)
	if assert.Len(t, acts, 2) {
		assert.True(t, strings.HasPrefix(acts[0].Message, "owner created project"))
		assert.Equal(t, `editor added a new key "A"`, acts[1].Message)
	}

	_, err = f.svc.ListActivity(ctx, stranger, f.project.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	recent, err := f.svc.RecentActivity(ctx, editor, 0)
	require.NoError(t, err)
	if assert.Len(t, recent, 1) {
		assert.Equal(t, "Payments", recent[0].ProjectName)
	}
	_, err = f.svc.RecentActivity(ctx, nil, 5)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSaveFailure_NoPartialState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.projects.saveErr = errors.New("db down")

	_, err := f.svc.AddKey(ctx, owner, f.project.ID, NewKey{Name: "A", Label: "A", Value: "alpha"})
	assert.Error(t, err)

	f.projects.saveErr = nil
	stored := f.projects.stored(t, f.project.ID)
	assert.Empty(t, stored.Keys)
	assert.Len(t, stored.Activity, len(f.project.Activity))
}

func TestNow_UsedForActivity(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	_, err := f.svc.AddKey(context.Background(), owner, f.project.ID, NewKey{Name: "A", Label: "A", Value: "alpha"})
	require.NoError(t, err)
	stored := f.projects.stored(t, f.project.ID)
	assert.Equal(t, fixed, stored.Activity[len(stored.Activity)-1].Timestamp)
}

// isEnvelope — значение хранится конвертом шифра {content, iv, tag}.
func isEnvelope(value string) bool {
	var env struct {
		Content string `json:"content"`
		IV      string `json:"iv"`
		Tag     string `json:"tag"`
	}
	if err := json.Unmarshal([]byte(value), &env); err != nil {
		return false
	}
	return env.Content != "" && env.IV != "" && env.Tag != ""
}
