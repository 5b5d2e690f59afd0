package mockserver_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockwire/mockwire/pkg/matchers"
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/mockserver"
	"github.com/mockwire/mockwire/pkg/request"
	"github.com/mockwire/mockwire/pkg/response"
)

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// selfSignedTLSConfig builds an in-memory self-signed server certificate
// for "127.0.0.1", for exercising Builder.WithTLS without depending on
// any file on disk.
func selfSignedTLSConfig(t *testing.T) *tls.Config {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	cert := tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
	return &tls.Config{Certificates: []tls.Certificate{cert}}
}

// S1: GET match.
func TestGetMatch(t *testing.T) {
	s := mockserver.StartT(t)

	s.Register(mock.Given(matchers.Method("GET")).And(matchers.Path("/hello")).
		RespondWith(func(*request.Request) response.Template {
			return response.New(http.StatusOK).SetBodyBytes([]byte("world"))
		}))

	status, body := getBody(t, s.URI()+"/hello")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "world", body)

	status, _ = getBody(t, s.URI()+"/missing")
	assert.Equal(t, http.StatusNotFound, status)
}

// S2: cap exhaustion.
func TestCap(t *testing.T) {
	s := mockserver.StartT(t)

	s.Register(mock.Given(matchers.Method("GET")).UpToNTimes(1).
		RespondWith(func(*request.Request) response.Template { return response.New(http.StatusOK) }))

	status, _ := getBody(t, s.URI()+"/")
	assert.Equal(t, http.StatusOK, status)

	status, _ = getBody(t, s.URI()+"/")
	assert.Equal(t, http.StatusNotFound, status)
}

// Default 404: with no mocks registered, every request gets 404.
func TestDefault404(t *testing.T) {
	s := mockserver.StartT(t)
	status, body := getBody(t, s.URI()+"/anything")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, body)
}

// Isolation: two independently started servers never share state.
func TestIsolation(t *testing.T) {
	s1 := mockserver.StartT(t)
	s2 := mockserver.StartT(t)

	s1.Register(mock.Given(matchers.AnyMethod()).
		RespondWith(func(*request.Request) response.Template { return response.New(http.StatusOK) }))

	status, _ := getBody(t, s1.URI()+"/")
	assert.Equal(t, http.StatusOK, status)

	status, _ = getBody(t, s2.URI()+"/")
	assert.Equal(t, http.StatusNotFound, status)
}

// S4: expectation pass, no panic on Stop.
func TestExpectationPass(t *testing.T) {
	s := mockserver.Start()
	s.Register(mock.Given(matchers.Method("GET")).Expect(mock.AtLeast(1)).
		RespondWith(func(*request.Request) response.Template { return response.New(http.StatusOK) }))

	getBody(t, s.URI()+"/")

	assert.NotPanics(t, func() { s.Stop() })
}

// S5: expectation fail panics with a diagnostic naming the mock and the
// received request.
func TestExpectationFailNamed(t *testing.T) {
	s := mockserver.Start()
	s.Register(mock.Given(matchers.Method("POST")).Expect(mock.AtLeast(1)).Named("POST expected").
		RespondWith(func(*request.Request) response.Template { return response.New(http.StatusOK) }))

	getBody(t, s.URI()+"/")

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected Stop to panic on unmet expectation")
		msg, ok := r.(string)
		require.True(t, ok)
		assert.Contains(t, msg, "POST expected")
		assert.Contains(t, msg, "GET")
	}()
	s.Stop()
}

// S6: scoped mock liveness.
func TestScopedMockLiveness(t *testing.T) {
	s := mockserver.StartT(t)

	g := s.RegisterAsScoped(mock.Given(matchers.Method("GET")).Expect(mock.Exactly(1)).
		RespondWith(func(*request.Request) response.Template { return response.New(http.StatusOK) }))

	status, _ := getBody(t, s.URI()+"/")
	assert.Equal(t, http.StatusOK, status)

	assert.NotPanics(t, func() { g.Close() })

	status, _ = getBody(t, s.URI()+"/")
	assert.Equal(t, http.StatusNotFound, status)
}

// S7: a delayed mock does not serialize behind unrelated requests.
func TestDelayDoesNotSerialize(t *testing.T) {
	s := mockserver.StartT(t)

	s.Register(mock.Given(matchers.Path("/slow")).
		RespondWith(func(*request.Request) response.Template {
			return response.New(http.StatusOK).SetDelay(time.Second)
		}))
	s.Register(mock.Given(matchers.Path("/fast")).
		RespondWith(func(*request.Request) response.Template { return response.New(http.StatusOK) }))

	done := make(chan struct{})
	go func() {
		status, _ := getBody(t, s.URI()+"/slow")
		assert.Equal(t, http.StatusOK, status)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	status, _ := getBody(t, s.URI()+"/fast")
	elapsed := time.Since(start)

	assert.Equal(t, http.StatusOK, status)
	assert.Less(t, elapsed, 500*time.Millisecond)

	<-done
}

// S8: wait-until-satisfied does not miss a wake even under a race with
// the matching request.
func TestWaitUntilSatisfied(t *testing.T) {
	s := mockserver.StartT(t)

	g := s.RegisterAsScoped(mock.Given(matchers.Method("GET")).Expect(mock.Exactly(1)).
		RespondWith(func(*request.Request) response.Template { return response.New(http.StatusOK) }))

	go func() {
		getBody(t, s.URI()+"/")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := g.WaitUntilSatisfied(ctx)
	assert.NoError(t, err)
}

// TLS: a server started via Builder.WithTLS reports an https:// URI and
// serves over TLS using the supplied configuration.
func TestBuilderWithTLS(t *testing.T) {
	s := mockserver.NewBuilder().WithTLS(selfSignedTLSConfig(t)).Start()
	defer s.Stop()

	assert.True(t, len(s.URI()) > len("https://") && s.URI()[:len("https://")] == "https://")

	s.Register(mock.Given(matchers.AnyMethod()).
		RespondWith(func(*request.Request) response.Template { return response.New(http.StatusOK) }))

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}}
	resp, err := client.Get(s.URI() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
