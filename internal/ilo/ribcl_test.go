package ilo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestClient starts a TLS server with the given handler and wires a RIBCL
// client at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *RIBCL {
	t.Helper()

	ts := httptest.NewTLSServer(handler)
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return NewRIBCL(u.Hostname(), "Administrator", "admin",
		WithPort(port), WithHTTPClient(ts.Client()))
}

const okResponse = `<?xml version="1.0"?>
<RIBCL VERSION="2.22">
<RESPONSE STATUS="0x0000" MESSAGE='No error'/>
</RIBCL>
`

func TestGetHostPowerStatusParsesResponse(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		io.WriteString(w, okResponse+`<?xml version="1.0"?>
<RIBCL VERSION="2.22">
<RESPONSE STATUS="0x0000" MESSAGE='No error'/>
<GET_HOST_POWER HOST_POWER="OFF"/>
</RIBCL>
`)
	})

	status, err := c.GetHostPowerStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, PowerOff, status)

	require.Contains(t, body, "<GET_HOST_POWER_STATUS/>")
	require.Contains(t, body, `USER_LOGIN="Administrator"`)
	require.Contains(t, body, `PASSWORD="admin"`)
	require.Contains(t, body, `<SERVER_INFO MODE="read">`)
}

func TestGetServerNameReturnsValue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, okResponse+`<?xml version="1.0"?>
<RIBCL VERSION="2.22">
<RESPONSE STATUS="0x0000" MESSAGE='No error'/>
<SERVER_NAME VALUE="web1.example.com"/>
</RIBCL>
`)
	})

	name, err := c.GetServerName(context.Background())
	require.NoError(t, err)
	require.Equal(t, "web1.example.com", name)
}

func TestSetOneTimeBootUppercasesDevice(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		io.WriteString(w, okResponse)
	})

	require.NoError(t, c.SetOneTimeBoot(context.Background(), "cdrom"))
	require.Contains(t, body, `<SET_ONE_TIME_BOOT VALUE="CDROM"/>`)
	require.Contains(t, body, `<SERVER_INFO MODE="write">`)
}

func TestInsertVirtualMediaMapsUSBToFloppy(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		io.WriteString(w, okResponse)
	})

	require.NoError(t, c.InsertVirtualMedia(context.Background(), "usb", "http://h/boot.img"))
	require.Contains(t, body, `DEVICE="FLOPPY"`)
	require.Contains(t, body, `IMAGE_URL="http://h/boot.img"`)
	require.Contains(t, body, `<RIB_INFO MODE="write">`)
}

func TestSetVMStatusComposesBootOption(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		io.WriteString(w, okResponse)
	})

	require.NoError(t, c.SetVMStatus(context.Background(), "cdrom", "boot_once", true))
	require.Contains(t, body, `<SET_VM_STATUS DEVICE="CDROM">`)
	require.Contains(t, body, `<VM_BOOT_OPTION VALUE="BOOT_ONCE"/>`)
	require.Contains(t, body, `<VM_WRITE_PROTECT VALUE="Y"/>`)
}

func TestGetVMStatusDecodesFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, okResponse+`<?xml version="1.0"?>
<RIBCL VERSION="2.22">
<RESPONSE STATUS="0x0000" MESSAGE='No error'/>
<GET_VM_STATUS VM_APPLET="CONNECTED" DEVICE="CDROM" BOOT_OPTION="BOOT_ONCE" WRITE_PROTECT="YES" IMAGE_INSERTED="YES" IMAGE_URL="http://h/boot.iso"/>
</RIBCL>
`)
	})

	status, err := c.GetVMStatus(context.Background(), "cdrom")
	require.NoError(t, err)
	require.Equal(t, "BOOT_ONCE", status.BootOption)
	require.True(t, status.WriteProtect)
	require.True(t, status.ImageInserted)
	require.Equal(t, "http://h/boot.iso", status.ImageURL)
}

func TestNonZeroStatusBecomesError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<?xml version="1.0"?>
<RIBCL VERSION="2.22">
<RESPONSE STATUS="0x005F" MESSAGE='Login credentials rejected.'/>
</RIBCL>
`)
	})

	_, err := c.GetServerName(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Login credentials rejected")
}

func TestMissingElementIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, okResponse)
	})

	_, err := c.GetHostPowerStatus(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "GET_HOST_POWER")
}

func TestHTTPErrorSurfaces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetServerName(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestWarmAndColdBootVerbs(t *testing.T) {
	var bodies []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		io.WriteString(w, okResponse)
	})

	require.NoError(t, c.WarmBootServer(context.Background()))
	require.NoError(t, c.ColdBootServer(context.Background()))
	require.Contains(t, bodies[0], "<WARM_BOOT_SERVER/>")
	require.Contains(t, bodies[1], "<COLD_BOOT_SERVER/>")
}
