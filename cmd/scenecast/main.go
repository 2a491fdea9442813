// scenecast is the operator-side client for the scene control channel.
// It dials the control port, writes one JSON intent document and exits;
// the channel is fire-and-forget, so outcomes show up in the server's
// logs rather than on this side.
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	var addr string

	rootCmd := &cobra.Command{
		Use:           "scenecast",
		Short:         "Send intent commands to a running scenectl server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&addr, "addr", "a", "127.0.0.1:7000", "control server address")

	rootCmd.AddCommand(sendCmd(&addr), spawnCmd(&addr))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scenecast: %v\n", err)
		os.Exit(1)
	}
}

func sendCmd(addr *string) *cobra.Command {
	var intent string
	var params []string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an arbitrary intent with key=value parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(intent) == "" {
				return fmt.Errorf("--intent is required")
			}
			parameters := make(map[string]any, len(params))
			for _, p := range params {
				k, v, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("invalid --param %q, want key=value", p)
				}
				parameters[k] = coerceValue(v)
			}
			return write(*addr, intent, parameters)
		},
	}
	cmd.Flags().StringVarP(&intent, "intent", "i", "", "intent name")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter as key=value (value parsed as JSON when possible)")
	return cmd
}

func spawnCmd(addr *string) *cobra.Command {
	var class string
	var at string

	cmd := &cobra.Command{
		Use:   "spawn",
		Short: "Spawn an actor of a class at x,y,z",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(class) == "" {
				return fmt.Errorf("--class is required")
			}
			loc, err := parseLocation(at)
			if err != nil {
				return err
			}
			return write(*addr, "spawn_actor", map[string]any{
				"class":    class,
				"location": loc,
			})
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "class name to spawn")
	cmd.Flags().StringVar(&at, "at", "0,0,0", "world location as x,y,z")
	return cmd
}

// coerceValue keeps JSON-typed values typed; everything else rides as
// a plain string.
func coerceValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func parseLocation(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid --at %q, want x,y,z", raw)
	}
	out := make([]float64, 3)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --at component %q: %w", p, err)
		}
		out[i] = f
	}
	return out, nil
}

func write(addr, intent string, parameters map[string]any) error {
	doc, err := json.Marshal(map[string]any{
		"intent":     intent,
		"parameters": parameters,
	})
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write(doc); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	fmt.Printf("sent %s to %s\n", intent, addr)
	return nil
}
