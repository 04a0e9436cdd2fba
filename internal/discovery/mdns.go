package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/dns/dnsmessage"

	"github.com/muurk/netaudio/internal/logging"
	"github.com/muurk/netaudio/internal/transport"
)

const (
	mdnsGroup = "224.0.0.251"
	mdnsPort  = 5353
)

// MDNSGroupAddr is the IPv4 mDNS multicast destination.
var MDNSGroupAddr = &net.UDPAddr{IP: net.ParseIP(mdnsGroup), Port: mdnsPort}

// MDNSGroup returns the group an MDNS socket must join.
func MDNSGroup() net.IP {
	return net.ParseIP(mdnsGroup)
}

// MDNS is a raw multicast DNS discoverer. It owns Conn and closes it when
// Discover returns.
type MDNS struct {
	Conn  transport.Conn
	Query string
	Dest  net.Addr
}

// NewMDNS returns an MDNS discoverer querying name over conn.
func NewMDNS(conn transport.Conn, name string) *MDNS {
	if name == "" {
		name = DefaultQuery
	}
	return &MDNS{Conn: conn, Query: name, Dest: MDNSGroupAddr}
}

// Discover sends one PTR query and forwards every response until ctx ends.
func (m *MDNS) Discover(ctx context.Context, out chan<- Response) error {
	stop := context.AfterFunc(ctx, func() { m.Conn.Close() })
	defer stop()
	defer m.Conn.Close()

	query, err := BuildQuery(m.Query)
	if err != nil {
		return err
	}
	if _, err := m.Conn.WriteTo(query, m.Dest); err != nil {
		return fmt.Errorf("send mDNS query: %w", err)
	}
	logging.Debug("mDNS query sent", zap.String("name", m.Query))

	buf := make([]byte, transport.MaxDatagramSize)
	for {
		n, addr, err := m.Conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read mDNS response: %w", err)
		}

		answers, ok := ParseResponse(buf[:n])
		if !ok || len(answers) == 0 {
			continue
		}

		resp := Response{Address: transport.HostOf(addr), Answers: answers}
		select {
		case out <- resp:
		case <-ctx.Done():
			return nil
		}
	}
}

// BuildQuery encodes a single PTR question for name.
func BuildQuery(name string) ([]byte, error) {
	n, err := dnsmessage.NewName(fqdn(name))
	if err != nil {
		return nil, fmt.Errorf("invalid query name %q: %w", name, err)
	}

	b := dnsmessage.NewBuilder(nil, dnsmessage.Header{})
	b.EnableCompression()
	if err := b.StartQuestions(); err != nil {
		return nil, err
	}
	if err := b.Question(dnsmessage.Question{
		Name:  n,
		Type:  dnsmessage.TypePTR,
		Class: dnsmessage.ClassINET,
	}); err != nil {
		return nil, err
	}
	return b.Finish()
}

// ParseResponse decodes the answer section of an mDNS response. Queries
// and undecodable messages report false.
func ParseResponse(msg []byte) ([]Answer, bool) {
	var p dnsmessage.Parser
	header, err := p.Start(msg)
	if err != nil || !header.Response {
		return nil, false
	}
	if err := p.SkipAllQuestions(); err != nil {
		return nil, false
	}

	var answers []Answer
	for {
		h, err := p.AnswerHeader()
		if errors.Is(err, dnsmessage.ErrSectionDone) {
			break
		}
		if err != nil {
			return answers, len(answers) > 0
		}

		a := Answer{Name: trimDot(h.Name.String()), Type: typeName(h.Type)}
		switch h.Type {
		case dnsmessage.TypePTR:
			r, err := p.PTRResource()
			if err != nil {
				return answers, len(answers) > 0
			}
			a.Data = trimDot(r.PTR.String())
		case dnsmessage.TypeSRV:
			r, err := p.SRVResource()
			if err != nil {
				return answers, len(answers) > 0
			}
			a.Data = fmt.Sprintf("%s:%d", trimDot(r.Target.String()), r.Port)
		case dnsmessage.TypeTXT:
			r, err := p.TXTResource()
			if err != nil {
				return answers, len(answers) > 0
			}
			a.Data = strings.Join(r.TXT, ",")
		case dnsmessage.TypeA:
			r, err := p.AResource()
			if err != nil {
				return answers, len(answers) > 0
			}
			a.Data = net.IP(r.A[:]).String()
		default:
			if err := p.SkipAnswer(); err != nil {
				return answers, len(answers) > 0
			}
		}
		answers = append(answers, a)
	}
	return answers, true
}

func typeName(t dnsmessage.Type) string {
	return strings.TrimPrefix(t.String(), "Type")
}

func fqdn(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
