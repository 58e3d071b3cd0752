package usecase

import (
	"context"
	"io"
	"log/slog"
	"net"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/ponyo877/roomchat/server/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const waitTimeout = 2 * time.Second

type fakeRepository struct {
	mu     sync.Mutex
	users  map[string]domain.User
	events []domain.Message
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[string]domain.User{}}
}

func (r *fakeRepository) CreateUser(username, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return domain.ErrUserExists
	}
	r.users[username] = domain.User{ID: len(r.users) + 1, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return nil
}

func (r *fakeRepository) GetUser(username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepository) UpdateBanned(username string, banned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Banned = banned
	r.users[username] = u
	return nil
}

func (r *fakeRepository) CreateEvent(room, sender string, kind domain.EventKind, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, domain.NewMessage(len(r.events)+1, room, sender, kind, content, time.Now()))
	return nil
}

func (r *fakeRepository) ListEvents(room string, kind domain.EventKind, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, e := range r.events {
		if e.Room == room && e.Kind == kind {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeRepository) ListEventsByQuery(room, pattern string) ([]domain.Message, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, e := range r.events {
		if (room == "" || e.Room == room) && re.MatchString(e.Content) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepository) kinds(kind domain.EventKind) []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type memFiles struct {
	mu    sync.Mutex
	rooms map[string]map[string][]byte
}

func newMemFiles() *memFiles {
	return &memFiles{rooms: map[string]map[string][]byte{}}
}

func (m *memFiles) Provision(room string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room]; !ok {
		m.rooms[room] = map[string][]byte{}
	}
	return nil
}

func (m *memFiles) Purge(room string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, room)
	return nil
}

func (m *memFiles) Save(room, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	files, ok := m.rooms[room]
	if !ok {
		return domain.ErrRoomNotFound
	}
	files[name] = append([]byte{}, data...)
	return nil
}

func (m *memFiles) Load(room, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.rooms[room][name]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return append([]byte{}, data...), nil
}

func (m *memFiles) List(room string) ([]domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var files []domain.File
	for name, data := range m.rooms[room] {
		files = append(files, domain.NewFile(room, name, int64(len(data)), time.Now()))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (m *memFiles) hasRoom(room string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[room]
	return ok
}

type testEnv struct {
	uc    *Usecase
	repo  *fakeRepository
	files *memFiles
}

func newTestEnv(t *testing.T, mutate ...func(*domain.Config)) *testEnv {
	t.Helper()
	cfg := domain.NewConfig()
	cfg.CloseGrace = 500 * time.Millisecond
	for _, m := range mutate {
		m(&cfg)
	}
	require.NoError(t, cfg.Validate())
	repo := newFakeRepository()
	files := newMemFiles()
	uc, err := newUsecase(cfg, repo, files, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	uc.bcryptCost = bcrypt.MinCost
	return &testEnv{uc: uc, repo: repo, files: files}
}

// testClient is the peer side of a session over net.Pipe. Frames are read
// continuously so the server never blocks on writes.
type testClient struct {
	t      *testing.T
	raw    net.Conn
	conn   *adaptor.FrameConn
	frames chan domain.Frame
	done   chan struct{}
}

func (e *testEnv) connect(t *testing.T) *testClient {
	return e.connectCtx(t, context.Background())
}

func (e *testEnv) connectCtx(t *testing.T, ctx context.Context) *testClient {
	t.Helper()
	server, client := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.uc.ServeConn(ctx, adaptor.NewFrameConn(server, 0))
	}()
	c := &testClient{
		t:      t,
		raw:    client,
		conn:   adaptor.NewFrameConn(client, 0),
		frames: make(chan domain.Frame, 1024),
		done:   done,
	}
	go func() {
		defer close(c.frames)
		for {
			f, err := c.conn.ReadFrame()
			if err != nil {
				return
			}
			c.frames <- f
		}
	}()
	t.Cleanup(func() { c.conn.Close() })
	return c
}

func (c *testClient) send(text string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteText(text))
}

func (c *testClient) next() domain.Frame {
	c.t.Helper()
	select {
	case f, ok := <-c.frames:
		require.True(c.t, ok, "connection closed")
		return f
	case <-time.After(waitTimeout):
		c.t.Fatal("timed out waiting for frame")
		return domain.Frame{}
	}
}

func (c *testClient) expect(text string) {
	c.t.Helper()
	require.Equal(c.t, text, c.next().Text)
}

// waitFor skips frames until one with the given text arrives.
func (c *testClient) waitFor(text string) {
	c.t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case f, ok := <-c.frames:
			require.True(c.t, ok, "connection closed while waiting for %q", text)
			if f.Text == text {
				return
			}
		case <-deadline:
			c.t.Fatalf("timed out waiting for %q", text)
		}
	}
}

func (c *testClient) expectClosed() {
	c.t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case _, ok := <-c.frames:
			if !ok {
				return
			}
		case <-deadline:
			c.t.Fatal("connection still open")
		}
	}
}

func (c *testClient) expectSilence() {
	c.t.Helper()
	select {
	case f, ok := <-c.frames:
		if ok {
			c.t.Fatalf("unexpected frame %q", f.Text)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func (c *testClient) quit() {
	c.conn.Close()
	select {
	case <-c.done:
	case <-time.After(waitTimeout):
		c.t.Fatal("session did not terminate")
	}
}

func (c *testClient) upload(name string, data []byte) {
	c.t.Helper()
	c.send("UPLOAD_FILE:" + name)
	c.expect(domain.ReplyReadyForUpload)
	require.NoError(c.t, c.conn.WriteBlob(data))
}

// login registers and logs in name, then completes the ready handshake
// and consumes the replies up to ROOM_LIST.
func (e *testEnv) login(t *testing.T, name string) *testClient {
	t.Helper()
	c := e.connect(t)
	c.send("REGISTER:" + name + ":secret")
	c.expect("SUCCESS:registration successful")
	c.send("LOGIN:" + name + ":secret")
	c.expect("SUCCESS:welcome " + name)
	c.send("READY")
	c.expect("ROOM_JOINED:Lobby")
	for {
		f := c.next()
		if strings.HasPrefix(f.Text, domain.ReplyRoomList+":") {
			return c
		}
	}
}

func netPipe(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}
