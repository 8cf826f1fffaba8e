package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ignite/audience-subscribe/internal/config"
	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/emailcheck"
	"github.com/ignite/audience-subscribe/internal/mailchimp"
	"github.com/ignite/audience-subscribe/internal/pkg/logger"
)

type checkResult struct {
	Name    string
	Passed  bool
	Detail  string
	Elapsed time.Duration
}

type addressChecker interface {
	Check(ctx context.Context, email string) error
}

type memberGetter interface {
	GetMember(ctx context.Context, audienceID, email string) (*domain.Member, error)
}

func main() {
	lookup := flag.Bool("lookup", false, "also fetch the member from the audience")
	audienceID := flag.String("audience", "", "audience id (defaults to the configured one)")
	nameserver := flag.String("nameserver", "", "DNS server to query instead of the system resolver")
	flag.Parse()

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, RedactPII: false})

	ns := cfg.DNS.Nameserver
	if *nameserver != "" {
		ns = *nameserver
	}
	var resolver emailcheck.Resolver = emailcheck.NewSystemResolver(cfg.DNS.Timeout())
	if ns != "" {
		resolver = emailcheck.NewNameserverResolver(ns, cfg.DNS.Timeout(), log)
	}
	validator := emailcheck.NewValidator(resolver, log)

	addresses := flag.Args()
	if len(addresses) == 0 {
		addresses = readAddresses(os.Stdin)
	}
	if len(addresses) == 0 {
		fmt.Fprintln(os.Stderr, "usage: check-email [-lookup] [-audience id] address... (or addresses on stdin)")
		os.Exit(2)
	}

	var members memberGetter
	audience := *audienceID
	if *lookup {
		if audience == "" {
			audience = cfg.Mailchimp.AudienceID
		}
		if cfg.Mailchimp.APIKey == "" || audience == "" {
			fmt.Fprintln(os.Stderr, "FATAL: -lookup needs MAILCHIMP_API_KEY and an audience id")
			os.Exit(1)
		}
		members = mailchimp.NewClient(cfg.Mailchimp)
	}

	fmt.Println("=========================================================")
	fmt.Println(" Email Address Check")
	fmt.Println("=========================================================")
	fmt.Printf("Addresses:          %d\n", len(addresses))
	if members != nil {
		fmt.Printf("Audience:           %s\n", audience)
	}
	fmt.Println("---------------------------------------------------------")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	results := make([]checkResult, 0, len(addresses))
	for _, addr := range addresses {
		results = append(results, checkAddress(ctx, validator, members, audience, addr))
	}

	if printReport(os.Stdout, results) {
		os.Exit(0)
	}
	os.Exit(1)
}

func readAddresses(r io.Reader) []string {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// checkAddress validates one address and, when members is non-nil, reports
// its membership. A missing member is not a failure.
func checkAddress(ctx context.Context, v addressChecker, members memberGetter, audienceID, email string) checkResult {
	start := time.Now()

	if err := v.Check(ctx, email); err != nil {
		return checkResult{Name: email, Passed: false, Detail: err.Error(), Elapsed: time.Since(start)}
	}
	if members == nil {
		return checkResult{Name: email, Passed: true, Elapsed: time.Since(start)}
	}

	member, err := members.GetMember(ctx, audienceID, email)
	switch {
	case errors.Is(err, mailchimp.ErrNotFound):
		return checkResult{Name: email, Passed: true, Detail: "not on list", Elapsed: time.Since(start)}
	case err != nil:
		return checkResult{Name: email, Passed: false, Detail: fmt.Sprintf("lookup error: %v", err), Elapsed: time.Since(start)}
	}

	detail := fmt.Sprintf("status=%s", member.Status)
	if len(member.Tags) > 0 {
		names := make([]string, 0, len(member.Tags))
		for _, t := range member.Tags {
			names = append(names, t.Name)
		}
		detail += fmt.Sprintf(", tags=%s", strings.Join(names, ","))
	}
	return checkResult{Name: email, Passed: true, Detail: detail, Elapsed: time.Since(start)}
}

// printReport writes the table and reports whether every check passed.
func printReport(w io.Writer, results []checkResult) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=========================================================")
	fmt.Fprintln(w, " CHECK REPORT")
	fmt.Fprintln(w, "=========================================================")
	allPassed := true
	for i, r := range results {
		status := "PASS ✓"
		if !r.Passed {
			status = "FAIL ✗"
			allPassed = false
		}
		fmt.Fprintf(w, "  [%d] %-45s %s  (%s)\n", i+1, r.Name, status, r.Elapsed.Round(time.Millisecond))
		if r.Detail != "" {
			fmt.Fprintf(w, "      %s\n", r.Detail)
		}
	}
	fmt.Fprintln(w, "=========================================================")
	if allPassed {
		fmt.Fprintln(w, "  OVERALL: PASS ✓")
	} else {
		fmt.Fprintln(w, "  OVERALL: FAIL ✗  one or more addresses failed")
	}
	fmt.Fprintln(w, "=========================================================")
	return allPassed
}
