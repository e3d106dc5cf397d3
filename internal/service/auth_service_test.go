package service

import (
	"context"
	"testing"

	"github.com/MrCorrectoMX/POSQuimo/internal/config"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory Repository Stub ────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	items map[uuid.UUID]*model.Usuario
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{items: map[uuid.UUID]*model.Usuario{}}
}

func (f *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range f.items {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range f.items {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range f.items {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := f.items[id]; ok {
		u.Activo = false
	}
	return nil
}

func (f *fakeUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := f.items[id]; ok {
		u.Activo = true
	}
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func authFixture(t *testing.T) (*fakeUsuarioRepo, AuthService, *model.Usuario) {
	t.Helper()
	repo := newFakeUsuarioRepo()
	cfg := &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 1, JWTRefreshHours: 24}

	// Low bcrypt cost keeps the suite fast; production hashes use cost 12.
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{Username: "vendedor@posquimo.mx", Nombre: "Vendedor Uno", PasswordHash: string(hash), Rol: "vendedor", Activo: true}
	require.NoError(t, repo.Create(context.Background(), u))

	return repo, NewAuthService(repo, cfg), u
}

func TestLogin(t *testing.T) {
	_, svc, _ := authFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor@posquimo.mx", Password: "1234"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "vendedor", resp.User.Rol)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("secreto-de-prueba"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "vendedor", claims["rol"])
	assert.Equal(t, "vendedor@posquimo.mx", claims["username"])
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	_, svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor@posquimo.mx", Password: "4321"})

	assert.Error(t, err)
}

func TestLogin_UsuarioNoExiste(t *testing.T) {
	_, svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie@posquimo.mx", Password: "1234"})

	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	_, svc, _ := authFixture(t)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor@posquimo.mx", Password: "1234"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "vendedor@posquimo.mx", resp.User.Username)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	_, svc, _ := authFixture(t)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")

	assert.Error(t, err)
}

func TestRefresh_UsuarioInactivo(t *testing.T) {
	repo, svc, u := authFixture(t)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor@posquimo.mx", Password: "1234"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestCrearYListarUsuarios(t *testing.T) {
	repo, svc, _ := authFixture(t)

	nuevo, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "admin@posquimo.mx", Nombre: "Admin", Password: "clave-segura", Rol: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", nuevo.Rol)

	id, err := uuid.Parse(nuevo.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(context.Background(), id))

	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestActualizarUsuario_CambiaRolYPassword(t *testing.T) {
	_, svc, u := authFixture(t)

	resp, err := svc.ActualizarUsuario(context.Background(), u.ID, dto.ActualizarUsuarioRequest{
		Rol: "admin", Password: "nueva-clave",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Rol)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor@posquimo.mx", Password: "nueva-clave"})
	assert.NoError(t, err)
}
