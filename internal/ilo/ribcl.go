package ilo

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultPort = 443

// RIBCL speaks the iLO RIBCL dialect: one XML document POSTed over HTTPS per
// command, answered by a sequence of small XML documents. Controllers ship
// with self-signed certificates, so certificate verification is off unless
// WithTLSVerify enables it.
type RIBCL struct {
	host       string
	login      string
	password   string
	port       int
	verifyTLS  bool
	timeout    time.Duration
	httpClient *http.Client
}

var _ Client = (*RIBCL)(nil)

// Option customises a RIBCL client.
type Option func(*RIBCL)

// WithPort overrides the controller HTTPS port.
func WithPort(port int) Option {
	return func(c *RIBCL) { c.port = port }
}

// WithTLSVerify enables certificate verification.
func WithTLSVerify(verify bool) Option {
	return func(c *RIBCL) { c.verifyTLS = verify }
}

// WithTimeout bounds each HTTP exchange. Zero means no transport timeout,
// matching controllers that hold the connection open during a reboot.
func WithTimeout(d time.Duration) Option {
	return func(c *RIBCL) { c.timeout = d }
}

// WithHTTPClient substitutes the HTTP client, primarily for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *RIBCL) { c.httpClient = client }
}

// NewRIBCL builds a client for the given controller.
func NewRIBCL(host, login, password string, opts ...Option) *RIBCL {
	c := &RIBCL{
		host:     host,
		login:    login,
		password: password,
		port:     defaultPort,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: !c.verifyTLS}, //nolint:gosec
			},
		}
	}

	return c
}

// Endpoint returns the RIBCL URL for this controller.
func (c *RIBCL) Endpoint() string {
	return fmt.Sprintf("https://%s:%d/ribcl", c.host, c.port)
}

func (c *RIBCL) GetServerName(ctx context.Context) (string, error) {
	attrs, err := c.call(ctx, "SERVER_INFO", "read", "<GET_SERVER_NAME/>", "SERVER_NAME")
	if err != nil {
		return "", err
	}
	return attrs["VALUE"], nil
}

func (c *RIBCL) GetHostPowerStatus(ctx context.Context) (string, error) {
	attrs, err := c.call(ctx, "SERVER_INFO", "read", "<GET_HOST_POWER_STATUS/>", "GET_HOST_POWER")
	if err != nil {
		return "", err
	}
	return strings.ToUpper(attrs["HOST_POWER"]), nil
}

func (c *RIBCL) SetOneTimeBoot(ctx context.Context, device string) error {
	body := fmt.Sprintf("<SET_ONE_TIME_BOOT VALUE=%s/>", xmlAttr(strings.ToUpper(device)))
	_, err := c.call(ctx, "SERVER_INFO", "write", body, "")
	return err
}

func (c *RIBCL) InsertVirtualMedia(ctx context.Context, device, imageURL string) error {
	body := fmt.Sprintf("<INSERT_VIRTUAL_MEDIA DEVICE=%s IMAGE_URL=%s/>",
		xmlAttr(mediaDevice(device)), xmlAttr(imageURL))
	_, err := c.call(ctx, "RIB_INFO", "write", body, "")
	return err
}

func (c *RIBCL) SetVMStatus(ctx context.Context, device, bootOption string, writeProtect bool) error {
	body := fmt.Sprintf("<SET_VM_STATUS DEVICE=%s><VM_BOOT_OPTION VALUE=%s/><VM_WRITE_PROTECT VALUE=%s/></SET_VM_STATUS>",
		xmlAttr(mediaDevice(device)), xmlAttr(bootOptionValue(bootOption)), xmlAttr(yesNo(writeProtect)))
	_, err := c.call(ctx, "RIB_INFO", "write", body, "")
	return err
}

func (c *RIBCL) GetVMStatus(ctx context.Context, device string) (MediaStatus, error) {
	body := fmt.Sprintf("<GET_VM_STATUS DEVICE=%s/>", xmlAttr(mediaDevice(device)))
	attrs, err := c.call(ctx, "RIB_INFO", "read", body, "GET_VM_STATUS")
	if err != nil {
		return MediaStatus{}, err
	}
	return mediaStatusFromAttrs(attrs), nil
}

func (c *RIBCL) SetVFStatus(ctx context.Context, bootOption string, writeProtect bool) error {
	body := fmt.Sprintf("<SET_VF_STATUS><VF_BOOT_OPTION VALUE=%s/><VF_WRITE_PROTECT VALUE=%s/></SET_VF_STATUS>",
		xmlAttr(bootOptionValue(bootOption)), xmlAttr(yesNo(writeProtect)))
	_, err := c.call(ctx, "RIB_INFO", "write", body, "")
	return err
}

func (c *RIBCL) GetVFStatus(ctx context.Context) (MediaStatus, error) {
	attrs, err := c.call(ctx, "RIB_INFO", "read", "<GET_VF_STATUS/>", "GET_VF_STATUS")
	if err != nil {
		return MediaStatus{}, err
	}
	return mediaStatusFromAttrs(attrs), nil
}

func (c *RIBCL) WarmBootServer(ctx context.Context) error {
	_, err := c.call(ctx, "SERVER_INFO", "write", "<WARM_BOOT_SERVER/>", "")
	return err
}

func (c *RIBCL) ColdBootServer(ctx context.Context) error {
	_, err := c.call(ctx, "SERVER_INFO", "write", "<COLD_BOOT_SERVER/>", "")
	return err
}

// call posts one RIBCL document and scans the response stream. When want is
// non-empty the attributes of the first element with that name are returned;
// a nonzero RESPONSE status anywhere in the stream fails the call.
func (c *RIBCL) call(ctx context.Context, section, mode, body, want string) (map[string]string, error) {
	payload := fmt.Sprintf(
		"<?xml version=\"1.0\"?>\r\n<RIBCL VERSION=\"2.0\"><LOGIN USER_LOGIN=%s PASSWORD=%s><%s MODE=%s>%s</%s></LOGIN></RIBCL>\r\n",
		xmlAttr(c.login), xmlAttr(c.password), section, xmlAttr(mode), body, section)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("controller returned HTTP %d", resp.StatusCode)
	}

	return parseResponse(raw, want)
}

// xmlDeclPattern strips the per-document XML declarations the controller
// emits; the response body is a concatenation of small documents.
var xmlDeclPattern = regexp.MustCompile(`<\?xml[^?]*\?>`)

func parseResponse(raw []byte, want string) (map[string]string, error) {
	cleaned := xmlDeclPattern.ReplaceAll(raw, nil)
	dec := xml.NewDecoder(bytes.NewReader(cleaned))

	var found map[string]string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed controller response: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		attrs := make(map[string]string, len(start.Attr))
		for _, attr := range start.Attr {
			attrs[strings.ToUpper(attr.Name.Local)] = attr.Value
		}

		switch {
		case strings.EqualFold(start.Name.Local, "RESPONSE"):
			if err := checkResponseStatus(attrs); err != nil {
				return nil, err
			}
		case want != "" && strings.EqualFold(start.Name.Local, want) && found == nil:
			found = attrs
		}
	}

	if want != "" && found == nil {
		return nil, fmt.Errorf("controller response missing %s element", want)
	}
	return found, nil
}

func checkResponseStatus(attrs map[string]string) error {
	status := attrs["STATUS"]
	if status == "" {
		return nil
	}

	code, err := strconv.ParseInt(strings.TrimPrefix(strings.ToLower(status), "0x"), 16, 32)
	if err != nil {
		return fmt.Errorf("unparseable controller status %q", status)
	}
	if code != 0 {
		msg := attrs["MESSAGE"]
		if msg == "" {
			msg = "no message"
		}
		return fmt.Errorf("controller error %s: %s", status, msg)
	}
	return nil
}

// mediaDevice maps a desired media kind onto the controller's device name.
// USB keys are presented through the virtual floppy device.
func mediaDevice(media string) string {
	switch strings.ToLower(media) {
	case "usb", "floppy":
		return "FLOPPY"
	default:
		return strings.ToUpper(media)
	}
}

func bootOptionValue(state string) string {
	return strings.ToUpper(state)
}

func yesNo(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}

func xmlAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return `"` + buf.String() + `"`
}

func mediaStatusFromAttrs(attrs map[string]string) MediaStatus {
	return MediaStatus{
		BootOption:    attrs["BOOT_OPTION"],
		WriteProtect:  isYes(attrs["WRITE_PROTECT"]),
		ImageInserted: isYes(attrs["IMAGE_INSERTED"]),
		ImageURL:      attrs["IMAGE_URL"],
	}
}

func isYes(v string) bool {
	switch strings.ToUpper(v) {
	case "YES", "Y", "TRUE":
		return true
	default:
		return false
	}
}
