/*
 * MIT License
 *
 * Copyright (c) 2025 Sam Pohlenz
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command passenger-handler runs a request handler around a built-in
// application callback. The spawning process inherits the owner pipe read
// end on descriptor 3 and reads the socket name from standard output.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	libhdl "github.com/spohlenz/passenger/handler"
	liblog "github.com/spohlenz/passenger/logger"
	libprt "github.com/spohlenz/passenger/protocol"
	libsck "github.com/spohlenz/passenger/socket"
	libver "github.com/spohlenz/passenger/version"
	libwdg "github.com/spohlenz/passenger/watchdog"
)

const (
	envPrefix = "PASSENGER"

	// ownerPipeFd is the descriptor on which the spawner passes the owner
	// pipe read end.
	ownerPipeFd = 3
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:           "passenger-handler",
		Short:         "single-tenant request handler over a private unix socket",
		Long:          "Serves framed requests for one application instance over a private unix-domain socket, under the lifecycle of a parent web server.",
		Version:       libver.Release,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          run,
	}

	c.Flags().String("prefix", libsck.DefaultPrefix, "name prefix of a filesystem-backed socket")
	c.Flags().Uint64("memory-limit", 0, "resident memory ceiling in bytes, 0 for unlimited")
	c.Flags().Duration("request-timeout", libwdg.RequestTimeout, "bound on a single request")
	c.Flags().Duration("termination-timeout", libwdg.TerminationTimeout, "bound on graceful termination")
	c.Flags().String("log-level", "info", "minimal log level (debug, info, warning, error)")

	return c
}

func run(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	l := liblog.New(os.Stderr)
	l.SetLevel(liblog.Parse(v.GetString("log-level")))
	l.SetFields(liblog.Fields{"app": cmd.Use})

	fct := func() liblog.Logger {
		return l
	}

	h, err := libhdl.New(ownerPipe(), serveStatic, libhdl.Config{
		SocketPrefix:       v.GetString("prefix"),
		MemoryLimit:        v.GetUint64("memory-limit"),
		RequestTimeout:     v.GetDuration("request-timeout"),
		TerminationTimeout: v.GetDuration("termination-timeout"),
	}, fct)

	if err != nil {
		return err
	}

	defer h.Cleanup()

	banner(cmd.OutOrStdout(), h)

	if e := h.MainLoop(); e != nil {
		return e
	}

	return nil
}

// ownerPipe picks up the inherited owner pipe read end, or nil when the
// handler runs unsupervised.
func ownerPipe() *os.File {
	f := os.NewFile(ownerPipeFd, "owner-pipe")

	if f == nil {
		return nil
	}

	if _, err := f.Stat(); err != nil {
		return nil
	}

	return f
}

// banner discloses the socket name on stdout: this is the out-of-band
// channel the spawning process reads.
func banner(w io.Writer, h libhdl.Handler) {
	_, _ = color.New(color.FgGreen, color.Bold).Fprintln(w, libver.Header())
	_, _ = fmt.Fprintf(w, "socket name: %s\n", h.Name())
	_, _ = fmt.Fprintf(w, "socket abstract: %t\n", h.Abstract())
}

// serveStatic is the built-in application callback: it drains the request
// body and answers a fixed identification response.
func serveStatic(_ libprt.Headers, body io.Reader, client io.Writer) {
	_, _ = io.Copy(io.Discard, body)

	const b = "ok"

	_, _ = fmt.Fprintf(client, "HTTP/1.1 200 OK\r\nX-Powered-By: %s\r\nContent-Length: %d\r\n\r\n%s", libver.Header(), len(b), b)
}
