package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-ui/lumen/internal/errors"
)

func TestRegisterInstanceAndGet(t *testing.T) {
	c := New()
	c.RegisterInstance("answer", 42)

	v, err := c.Get("answer")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGetUnregisteredKey(t *testing.T) {
	c := New()

	_, err := c.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeKeyNotRegistered))
}

func TestChildFallsBackToAncestors(t *testing.T) {
	root := New()
	root.RegisterInstance("shared", "from-root")

	child := root.CreateChild().CreateChild()

	v, err := child.Get("shared")
	require.NoError(t, err)
	assert.Equal(t, "from-root", v)
}

func TestGetLocalDoesNotFallBack(t *testing.T) {
	root := New()
	root.RegisterInstance("shared", "from-root")
	child := root.CreateChild()

	_, err := child.GetLocal("shared")
	require.Error(t, err)

	child.RegisterInstance("shared", "from-child")
	v, err := child.GetLocal("shared")
	require.NoError(t, err)
	assert.Equal(t, "from-child", v)
}

func TestChildShadowsParentRegistration(t *testing.T) {
	root := New()
	root.RegisterInstance("k", "parent")
	child := root.CreateChild()
	child.RegisterInstance("k", "child")

	v, err := child.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "child", v)

	v, err = root.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "parent", v)
}

func TestSwapResolverRestore(t *testing.T) {
	c := New()
	c.RegisterInstance("k", "default")

	restore := c.SwapResolver("k", instanceResolver{value: "override"})
	v, _ := c.Get("k")
	assert.Equal(t, "override", v)

	restore()
	v, _ = c.Get("k")
	assert.Equal(t, "default", v)
}

func TestSwapResolverRestoreRemovesWhenAbsent(t *testing.T) {
	c := New()

	restore := c.SwapResolver("k", instanceResolver{value: "temp"})
	assert.True(t, c.Has("k", false))

	restore()
	assert.False(t, c.Has("k", false))
}

func TestSingletonFactoryMemoizes(t *testing.T) {
	c := New()
	calls := 0
	c.RegisterFactory("svc", func(requestor *Container) (any, error) {
		calls++
		return &struct{ n int }{n: calls}, nil
	}, true)

	first, err := c.Get("svc")
	require.NoError(t, err)
	second, err := c.Get("svc")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestTransientFactoryCreatesFresh(t *testing.T) {
	c := New()
	// The value must carry size: zero-sized allocations share one address,
	// which would defeat the pointer-identity assertion below.
	c.RegisterFactory("svc", func(requestor *Container) (any, error) {
		return &struct{ n int }{}, nil
	}, false)

	first, _ := c.Get("svc")
	second, _ := c.Get("svc")
	assert.NotSame(t, first, second)
}

func TestCircularResolutionDetected(t *testing.T) {
	c := New()
	c.RegisterFactory("a", func(requestor *Container) (any, error) {
		return requestor.Get("a")
	}, true)

	_, err := c.Get("a")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCircularResolution))
}

func TestResolverSeesRequestorContainer(t *testing.T) {
	root := New()
	root.RegisterFactory("who", func(requestor *Container) (any, error) {
		// The requestor carries the child's registrations even though the
		// factory lives at the root.
		return requestor.Get("name")
	}, false)

	child := root.CreateChild()
	child.RegisterInstance("name", "leaf")

	v, err := child.Get("who")
	require.NoError(t, err)
	assert.Equal(t, "leaf", v)
}

type registerableValue struct {
	key   string
	value any
}

func (r registerableValue) Register(c *Container) error {
	c.RegisterInstance(r.key, r.value)
	return nil
}

func TestBulkRegister(t *testing.T) {
	c := New()
	err := c.Register(registerableValue{key: "a", value: 1}, registerableValue{key: "b", value: 2})
	require.NoError(t, err)

	v, _ := c.Get("b")
	assert.Equal(t, 2, v)
}

func TestBulkRegisterRejectsPlainValues(t *testing.T) {
	c := New()
	err := c.Register("not registerable")
	require.Error(t, err)
}
