package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"clawid.dev/claw/cidutil"
	"clawid.dev/claw/compliance"
	"clawid.dev/claw/keys"
	"clawid.dev/claw/receipt"
	"clawid.dev/claw/renderer"
	"clawid.dev/claw/rendersvc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "svg":
		return cmdSVG(args[1:], out, errOut)
	case "doc":
		return cmdDoc(args[1:], out, errOut)
	case "meta":
		return cmdMeta(args[1:], out, errOut)
	case "traits":
		return cmdTraits(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "receipt":
		return cmdReceipt(args[1:], out, errOut)
	case "check":
		return cmdCheck(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "claw-render: deterministic .claw identity artwork")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  claw-render svg --key <40hex> --name <name> [--token N] [--counter N] [--phase P] [--activity N] [--mode permissive|strict]")
	fmt.Fprintln(w, "  claw-render doc --key <40hex> --name <name> [--description <text>] [...]")
	fmt.Fprintln(w, "  claw-render (svg|doc) [...] --remote <host:port> [--timeout 10s]")
	fmt.Fprintln(w, "  claw-render meta --key <40hex> --name <name> [...]")
	fmt.Fprintln(w, "  claw-render traits --key <40hex>")
	fmt.Fprintln(w, "  claw-render cid (--key <40hex> --name <name> [...] | <file>)")
	fmt.Fprintln(w, "  claw-render receipt --key <40hex> --name <name> [...] [--seed-hex <64hex> [--role <role>] [--alg ed25519|dilithium3] [--hash sha256|sha512|sha3-256]]")
	fmt.Fprintln(w, "  claw-render check <receipt-file>")
	fmt.Fprintln(w, "  claw-render key --seed-hex <64hex> [--role <role>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - svg, doc, meta and receipt write bytes to stdout with no trailing newline")
	fmt.Fprintln(w, "  - phases above 4 are clamped to Transcendence")
	fmt.Fprintln(w, "  - --mode strict rejects names outside [a-z0-9-]{3,32}")
	fmt.Fprintln(w, "  - check verifies the signature (when signed) and re-renders to compare CIDs")
}

// requestFlags holds the render request flags shared by several commands.
type requestFlags struct {
	key         string
	name        string
	description string
	token       uint64
	counter     uint64
	phase       uint
	activity    uint64
	mode        string
}

func bindRequestFlags(fs *flag.FlagSet) *requestFlags {
	rf := &requestFlags{}
	fs.StringVar(&rf.key, "key", "", "Identity key (20 bytes hex, optional 0x prefix)")
	fs.StringVar(&rf.name, "name", "", "Registered name, without the .claw suffix")
	fs.StringVar(&rf.description, "description", "", "Metadata description (default: "+renderer.DefaultDescription+")")
	fs.Uint64Var(&rf.token, "token", 0, "Token index")
	fs.Uint64Var(&rf.counter, "counter", 0, "Creation counter")
	fs.UintVar(&rf.phase, "phase", 0, "Evolution phase 0-4")
	fs.Uint64Var(&rf.activity, "activity", 0, "Activity count")
	fs.StringVar(&rf.mode, "mode", "permissive", "Compliance mode: permissive or strict")
	return rf
}

func (rf *requestFlags) request(errOut io.Writer) (renderer.Request, bool) {
	var req renderer.Request
	if rf.key == "" {
		fmt.Fprintln(errOut, "missing --key")
		return req, false
	}
	mode, err := compliance.ParseMode(rf.mode)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --mode: %v\n", err)
		return req, false
	}
	k, err := renderer.ParseKey(rf.key)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --key: %v (%s)\n", err, renderer.RuleID(err))
		return req, false
	}
	req = renderer.Request{
		Key:             k,
		TokenIndex:      rf.token,
		CreationCounter: rf.counter,
		Name:            rf.name,
		Description:     rf.description,
		Phase:           rf.phase,
		ActivityCount:   rf.activity,
	}
	if err := req.Validate(mode); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v (%s)\n", err, renderer.RuleID(err))
		return req, false
	}
	return req, true
}

func parseRequest(name string, args []string, errOut io.Writer) (renderer.Request, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	rf := bindRequestFlags(fs)
	if err := fs.Parse(args); err != nil {
		return renderer.Request{}, false
	}
	return rf.request(errOut)
}

func cmdSVG(args []string, out io.Writer, errOut io.Writer) int {
	return renderCommand("svg", args, out, errOut,
		func(res renderer.Result) string { return res.Markup },
		(*rendersvc.Client).RenderMarkup)
}

func cmdDoc(args []string, out io.Writer, errOut io.Writer) int {
	return renderCommand("doc", args, out, errOut,
		func(res renderer.Result) string { return res.Document },
		(*rendersvc.Client).RenderDocument)
}

// renderCommand renders locally, or through a claw-renderd instance when
// --remote is set.
func renderCommand(
	name string,
	args []string,
	out, errOut io.Writer,
	local func(renderer.Result) string,
	remote func(*rendersvc.Client, context.Context, renderer.Request) (string, error),
) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	rf := bindRequestFlags(fs)
	var addr string
	var timeout time.Duration
	fs.StringVar(&addr, "remote", "", "claw-renderd address (host:port); render locally when empty")
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "Per-call timeout for --remote")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	req, ok := rf.request(errOut)
	if !ok {
		return 2
	}
	if addr == "" {
		_, _ = io.WriteString(out, local(renderer.Render(req)))
		return 0
	}

	c, err := rendersvc.Dial(addr, rendersvc.DialOptions{Timeout: timeout})
	if err != nil {
		fmt.Fprintf(errOut, "dial %s: %v\n", addr, err)
		return 1
	}
	defer c.Close()
	v, err := remote(c, context.Background(), req)
	if err != nil {
		fmt.Fprintf(errOut, "remote %s: %v\n", name, err)
		return 1
	}
	_, _ = io.WriteString(out, v)
	return 0
}

func cmdMeta(args []string, out io.Writer, errOut io.Writer) int {
	req, ok := parseRequest("meta", args, errOut)
	if !ok {
		return 2
	}
	_, _ = out.Write(renderer.Render(req).Metadata)
	return 0
}

func cmdTraits(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("traits", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var keyHex string
	fs.StringVar(&keyHex, "key", "", "Identity key (20 bytes hex, optional 0x prefix)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if keyHex == "" {
		fmt.Fprintln(errOut, "missing --key")
		return 2
	}
	k, err := renderer.ParseKey(keyHex)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --key: %v (%s)\n", err, renderer.RuleID(err))
		return 2
	}
	t := renderer.DeriveTraits(k)
	fmt.Fprintf(out, "Shape: %s\n", t.Family)
	fmt.Fprintf(out, "Harmony: %s\n", t.Params.Harmony)
	fmt.Fprintf(out, "Hue: %d\n", t.Palette[0].Hue)
	for i, c := range t.Palette {
		fmt.Fprintf(out, "Color-%d: %s\n", i, c)
	}
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	rf := bindRequestFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 1 && rf.key == "" {
		path := fs.Arg(0)
		b, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
			return 1
		}
		_, _ = fmt.Fprintln(out, cidutil.CIDv1RawSHA256(b))
		return 0
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: claw-render cid (--key <40hex> ... | <file>)")
		return 2
	}
	req, ok := rf.request(errOut)
	if !ok {
		return 2
	}
	res := renderer.Render(req)
	fmt.Fprintf(out, "Markup-CID: %s\n", res.MarkupCID)
	fmt.Fprintf(out, "Metadata-CID: %s\n", res.MetadataCID)
	return 0
}

func cmdReceipt(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("receipt", flag.ContinueOnError)
	fs.SetOutput(errOut)
	rf := bindRequestFlags(fs)
	var seedHex, role, alg, hashAlg string
	fs.StringVar(&seedHex, "seed-hex", "", "Root signer seed (32 bytes hex); omit for an unsigned receipt")
	fs.StringVar(&role, "role", "cli", "Signer role used to derive the signing seed")
	fs.StringVar(&alg, "alg", keys.AlgEd25519, "Signature algorithm: ed25519 or dilithium3")
	fs.StringVar(&hashAlg, "hash", "sha256", "Hash algorithm: sha256, sha512 or sha3-256")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	req, ok := rf.request(errOut)
	if !ok {
		return 2
	}

	opts := receipt.IssueOptions{HashAlg: hashAlg}
	if seedHex != "" {
		signer, err := signerFromSeed(seedHex, role, alg)
		if err != nil {
			fmt.Fprintf(errOut, "signer: %v\n", err)
			return 2
		}
		opts.Signer = signer
	}

	data, err := receipt.Issue(req, opts)
	if err != nil {
		fmt.Fprintf(errOut, "issue receipt: %v (%s)\n", err, receipt.RuleID(err))
		return 1
	}
	_, _ = out.Write(data)
	return 0
}

func cmdCheck(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: claw-render check <receipt-file>")
		return 2
	}
	path := fs.Arg(0)
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}
	r, err := receipt.Parse(b)
	if err != nil {
		fmt.Fprintf(errOut, "invalid receipt: %v (%s)\n", err, receipt.RuleID(err))
		return 1
	}
	signed := r.SignatureAlg() != receipt.AlgNone
	if signed {
		if err := r.Verify(); err != nil {
			fmt.Fprintf(errOut, "signature: %v (%s)\n", err, receipt.RuleID(err))
			return 1
		}
	}
	if err := r.Check(); err != nil {
		fmt.Fprintf(errOut, "render check: %v (%s)\n", err, receipt.RuleID(err))
		return 1
	}
	if signed {
		fmt.Fprintf(out, "OK signed by %s\n", r.SignerKey())
	} else {
		fmt.Fprintln(out, "OK unsigned")
	}
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var seedHex, role, alg string
	fs.StringVar(&seedHex, "seed-hex", "", "Root signer seed (32 bytes hex)")
	fs.StringVar(&role, "role", "cli", "Signer role")
	fs.StringVar(&alg, "alg", keys.AlgEd25519, "Signature algorithm: ed25519 or dilithium3")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if seedHex == "" {
		fmt.Fprintln(errOut, "missing --seed-hex")
		return 2
	}
	signer, err := signerFromSeed(seedHex, role, alg)
	if err != nil {
		fmt.Fprintf(errOut, "signer: %v\n", err)
		return 2
	}
	_, _ = fmt.Fprintln(out, signer.SignerKey())
	return 0
}

func signerFromSeed(seedHex, role, alg string) (keys.Signer, error) {
	root, err := keys.ParseSeedHex(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid --seed-hex: %w", err)
	}
	seed, err := keys.DeriveSignerSeed(root, role)
	if err != nil {
		return nil, fmt.Errorf("invalid --role: %w", err)
	}
	switch alg {
	case keys.AlgEd25519:
		return keys.NewEd25519Signer(seed)
	case keys.AlgDilithium3:
		return keys.NewDilithium3SignerFromSeed(seed)
	default:
		return nil, errors.New("unsupported --alg " + alg)
	}
}
