package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/netaudio/internal/device"
	"github.com/muurk/netaudio/internal/protocol"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a captured control or notification frame",
	Long: `Decode a frame captured off the wire and show what the client would do
with it. Replies are applied to an empty device record, which is printed.
Whitespace, colons and a leading 0x are ignored.`,
	Example: `  netaudio-ctl decode 2729001100421000000000000008000400
  netaudio-ctl decode "27 29 00 11 00 42 10 00 ..."`,
	Args:              cobra.MinimumNArgs(1),
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseHex(strings.Join(args, ""))
		if err != nil {
			return err
		}
		result, err := decodeFrame(data)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// decodeResult describes a decoded frame
type decodeResult struct {
	Kind          string         `json:"kind"` // "reply" or "notification"
	Command       string         `json:"command"`
	TransactionID uint16         `json:"transactionId,omitempty"`
	Length        int            `json:"length"`
	Handled       bool           `json:"handled"`
	Changed       bool           `json:"changed,omitempty"`
	Device        *device.Device `json:"device,omitempty"`
}

var errUndecodable = errors.New("not a valid control or notification frame")

// parseHex decodes hex text, ignoring whitespace, colons and a 0x prefix
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

func decodeFrame(data []byte) (*decodeResult, error) {
	if len(data) > 0 && data[0] == protocol.NotificationHeader {
		n, ok := protocol.DecodeNotification(data, len(data))
		if !ok {
			return nil, errUndecodable
		}
		return &decodeResult{
			Kind:    "notification",
			Command: n.String(),
			Length:  len(data),
			Handled: n == protocol.NotifyTxChannelsChanged ||
				n == protocol.NotifyRxChannelsChanged ||
				n == protocol.NotifyDeviceInfoChanged,
		}, nil
	}

	frame, ok := protocol.Decode(data, len(data))
	if !ok {
		return nil, errUndecodable
	}

	d := device.New("")
	changed, handled := protocol.ApplyReply(frame, d)
	result := &decodeResult{
		Kind:          "reply",
		Command:       frame.Command.String(),
		TransactionID: frame.TransactionID,
		Length:        len(data),
		Handled:       handled,
		Changed:       changed,
	}
	if handled {
		result.Device = d
	}
	return result, nil
}
