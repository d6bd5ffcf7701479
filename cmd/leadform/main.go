// Command leadform drives the lead-capture form from a terminal against a
// running notification endpoint.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appconfig "github.com/wolfman30/linkpage/internal/config"
	"github.com/wolfman30/linkpage/internal/leadform"
	"github.com/wolfman30/linkpage/internal/leads"
	"github.com/wolfman30/linkpage/pkg/logging"
)

const maxSubmitAttempts = 3

var fieldLabels = []struct {
	field leads.Field
	label string
}{
	{leads.FieldName, "Name"},
	{leads.FieldEmail, "Email"},
	{leads.FieldPhone, "Phone"},
}

func main() {
	var (
		endpoint = flag.String("endpoint", "", "notification endpoint URL (defaults to LEAD_ENDPOINT_URL)")
		name     = flag.String("name", "", "prefill name")
		email    = flag.String("email", "", "prefill email")
		phone    = flag.String("phone", "", "prefill phone")
	)
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	if *endpoint == "" {
		*endpoint = cfg.LeadEndpointURL
	}

	opened := make(chan struct{})
	opener := leadform.OpenerFunc(func(url string) {
		defer close(opened)
		if url == "" {
			return
		}
		fmt.Fprintf(os.Stdout, "Your resource is ready: %s\n", url)
	})

	ctrl := leadform.New(leadform.NewHTTPNotifier(*endpoint, nil), opener, leadform.Options{
		ResourceURL: cfg.ResourceURL,
		ResetOnOpen: cfg.LeadFormResetOnOpen,
	})
	prefill := leads.Submission{Name: *name, Email: *email, Phone: *phone}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runForm(ctx, ctrl, prefill, os.Stdin, os.Stdout); err != nil {
		logger.Error("lead form failed", "endpoint", *endpoint, "error", err)
		os.Exit(1)
	}

	select {
	case <-opened:
	case <-time.After(2 * time.Second):
	}
}

// runForm opens the form, prompts for missing or invalid fields, and submits
// until the submission succeeds, the user gives up, or attempts run out.
func runForm(ctx context.Context, ctrl *leadform.Controller, prefill leads.Submission, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	ctrl.Open()
	defer ctrl.Close()

	for _, fl := range fieldLabels {
		if v, _ := prefill.Get(fl.field); v != "" {
			if err := ctrl.UpdateField(fl.field, v); err != nil {
				return err
			}
		}
	}

	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		if err := promptFields(ctrl, reader, out); err != nil {
			return err
		}

		err := ctrl.Submit(ctx)
		switch {
		case err == nil:
			fmt.Fprintln(out, "Thanks! Your details were sent.")
			return nil
		case errors.Is(err, leadform.ErrInvalid):
			printErrors(out, ctrl.Errors())
		default:
			fmt.Fprintln(out, ctrl.Errors()[leads.FieldSubmit])
			retry, rerr := ask(reader, out, "Retry? [y/N]: ")
			if rerr != nil {
				return rerr
			}
			if !strings.EqualFold(retry, "y") {
				return err
			}
		}
	}
	return fmt.Errorf("leadform: gave up after %d attempts", maxSubmitAttempts)
}

func promptFields(ctrl *leadform.Controller, reader *bufio.Reader, out io.Writer) error {
	draft := ctrl.Draft()
	errs := ctrl.Errors()
	for _, fl := range fieldLabels {
		current, _ := draft.Get(fl.field)
		if strings.TrimSpace(current) != "" && !errs.Has(fl.field) {
			continue
		}
		prompt := fl.label + ": "
		if current != "" {
			prompt = fmt.Sprintf("%s [%s]: ", fl.label, current)
		}
		value, err := ask(reader, out, prompt)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if err := ctrl.UpdateField(fl.field, value); err != nil {
			return err
		}
	}
	return nil
}

func ask(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("leadform: read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printErrors(out io.Writer, errs leads.ValidationErrors) {
	for _, field := range errs.Fields() {
		fmt.Fprintf(out, "  %s: %s\n", field, errs[field])
	}
}
