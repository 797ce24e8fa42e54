package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to a Parley server. It implements Signaling, so a Driver
// can run over it directly.
type Client struct {
	BaseURL string
	Token   string

	HTTP *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) execute(ctx context.Context, method, path string, params, res any) error {
	var body io.Reader
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	if len(c.Token) > 0 {
		request.Header.Set("Authorization", "Bearer "+c.Token)
	}

	response, err := c.HTTP.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		apiErr := &APIError{Status: response.StatusCode, Message: string(raw)}
		switch response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrAuthorization, apiErr)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		case http.StatusConflict:
			return fmt.Errorf("%w: %w", ErrInvalidTransition, apiErr)
		}
		return apiErr
	}

	if res != nil {
		return json.Unmarshal(raw, res)
	}
	return nil
}

type authedRoom struct {
	Room   Room       `json:"room"`
	Member RoomMember `json:"member"`
	Token  string     `json:"token"`
}

// CreateRoom provisions a room, enrolls the creator, and leaves the
// client authenticated as that member.
func (c *Client) CreateRoom(ctx context.Context, name, description, password, creatorName, creatorEmail string) (Room, Session, error) {
	var out authedRoom
	err := c.execute(ctx, http.MethodPost, "/api/rooms", map[string]any{
		"name":          name,
		"description":   description,
		"password":      password,
		"creator_name":  creatorName,
		"creator_email": creatorEmail,
	}, &out)
	if err != nil {
		return Room{}, Session{}, err
	}

	c.Token = out.Token
	return out.Room, Session{
		RoomID:     out.Member.RoomID,
		MemberID:   out.Member.MemberID,
		MemberName: out.Member.Name,
	}, nil
}

// JoinRoom authenticates against a room by invite code and password.
func (c *Client) JoinRoom(ctx context.Context, inviteCode, password, name, email string) (Room, Session, error) {
	var out authedRoom
	err := c.execute(ctx, http.MethodPost, "/api/rooms/join", map[string]any{
		"invite_code": inviteCode,
		"password":    password,
		"name":        name,
		"email":       email,
	}, &out)
	if err != nil {
		return Room{}, Session{}, err
	}

	c.Token = out.Token
	return out.Room, Session{
		RoomID:     out.Member.RoomID,
		MemberID:   out.Member.MemberID,
		MemberName: out.Member.Name,
	}, nil
}

func (c *Client) ListRoomMembers(ctx context.Context, roomId uint) ([]RoomMember, error) {
	var out []RoomMember
	err := c.execute(ctx, http.MethodGet, fmt.Sprintf("/api/rooms/%d/members", roomId), nil, &out)
	return out, err
}

// IceServers fetches the connectivity server list the deployment hands
// to local negotiation engines.
func (c *Client) IceServers(ctx context.Context) ([]string, error) {
	var out struct {
		IceServers []string `json:"ice_servers"`
	}
	err := c.execute(ctx, http.MethodGet, "/.well-known", nil, &out)
	return out.IceServers, err
}

func (c *Client) CreateCall(ctx context.Context, roomId uint, receiverId string, media MediaType, offer string) (Call, error) {
	var out Call
	err := c.execute(ctx, http.MethodPost, fmt.Sprintf("/api/rooms/%d/calls", roomId), map[string]any{
		"receiver_id": receiverId,
		"media":       string(media),
		"offer":       offer,
	}, &out)
	return out, err
}

func (c *Client) GetCall(ctx context.Context, id uint) (Call, error) {
	var out Call
	err := c.execute(ctx, http.MethodGet, fmt.Sprintf("/api/calls/%d", id), nil, &out)
	return out, err
}

func (c *Client) AnswerCall(ctx context.Context, id uint, answer string) (Call, error) {
	var out Call
	err := c.execute(ctx, http.MethodPost, fmt.Sprintf("/api/calls/%d/answer", id), map[string]any{
		"answer": answer,
	}, &out)
	return out, err
}

func (c *Client) RejectCall(ctx context.Context, id uint) error {
	return c.execute(ctx, http.MethodPost, fmt.Sprintf("/api/calls/%d/reject", id), nil, nil)
}

func (c *Client) EndCall(ctx context.Context, id uint) error {
	return c.execute(ctx, http.MethodPost, fmt.Sprintf("/api/calls/%d/end", id), nil, nil)
}

func (c *Client) AddCandidate(ctx context.Context, callId uint, payload string) error {
	return c.execute(ctx, http.MethodPost, fmt.Sprintf("/api/calls/%d/candidates", callId), map[string]any{
		"candidate": payload,
	}, nil)
}

// ListCandidates returns the other party's candidates in insertion
// order; the server excludes rows this member contributed.
func (c *Client) ListCandidates(ctx context.Context, callId uint) ([]Candidate, error) {
	var out []Candidate
	err := c.execute(ctx, http.MethodGet, fmt.Sprintf("/api/calls/%d/candidates", callId), nil, &out)
	return out, err
}

// IncomingCall returns nil when nothing is ringing for this member.
func (c *Client) IncomingCall(ctx context.Context) (*Call, error) {
	var out Call
	err := c.execute(ctx, http.MethodGet, "/api/calls/incoming", nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &out, nil
}

// ActiveCall returns nil when the member has no accepted call.
func (c *Client) ActiveCall(ctx context.Context) (*Call, error) {
	var out Call
	err := c.execute(ctx, http.MethodGet, "/api/calls/active", nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &out, nil
}
