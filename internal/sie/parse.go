// Package sie reads SIE ledger exports into a model.Document.
package sie

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/model"
)

const dateFormat = "20060102"

var accountNumber = regexp.MustCompile(`^\d{3,4}$`)

// Options configures Parse.
type Options struct {
	// UsedEpsilon is the magnitude above which a balance marks an account as used.
	UsedEpsilon decimal.Decimal
}

type accountState struct {
	name    string
	typ     string
	aux     int
	current model.BalanceSet
	prior   model.BalanceSet
}

type parser struct {
	opts     Options
	doc      *model.Document
	accounts map[int]*accountState

	header    *model.Voucher // last #VER not yet attached to a block
	block     *model.Voucher // voucher whose block is open; nil for an orphan block
	inBlock   bool
	blockLine int
	seen      map[string]int
}

// Parse reads ledger text. It never fails: problems are recorded as warnings
// on the returned document.
func Parse(text string, opts Options) *model.Document {
	p := &parser{
		opts:     opts,
		doc:      &model.Document{},
		accounts: make(map[int]*accountState),
		seen:     make(map[string]int),
	}

	lineNo := 0
	for rest := text; rest != ""; {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		lineNo++
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		p.line(lineNo, strings.TrimSpace(line))
	}

	if p.inBlock {
		p.warn(model.Warning{
			Code:    model.WarnUnterminatedBlock,
			Line:    p.blockLine,
			Voucher: p.blockID(),
			Message: "voucher block not closed before end of input; closed implicitly",
		})
		p.closeBlock()
	}

	p.finishAccounts()
	return p.doc
}

func (p *parser) line(n int, line string) {
	if line == "" {
		return
	}
	switch line {
	case "{":
		p.openBlock(n)
		return
	case "}":
		if !p.inBlock {
			p.malformed(n, line, fmt.Errorf("closing brace without open block"))
			return
		}
		p.closeBlock()
		return
	}
	if !strings.HasPrefix(line, "#") {
		return
	}

	fields := splitFields(line)
	tag := strings.ToUpper(fields[0].text)
	args := fields[1:]

	var err error
	switch tag {
	case "#KONTO":
		err = p.parseAccount(args)
	case "#SRU":
		err = p.parseAuxCode(args)
	case "#KTYP":
		err = p.parseAccountType(args)
	case "#IB":
		err = p.parseBalance(model.BalanceOpening, args)
	case "#UB":
		err = p.parseBalance(model.BalanceClosing, args)
	case "#RES":
		err = p.parseBalance(model.BalanceResult, args)
	case "#VER":
		err = p.parseHeader(n, args)
	case "#TRANS":
		err = p.parsePosting(n, line, model.PostingNormal, args)
	case "#RTRANS":
		err = p.parsePosting(n, line, model.PostingAdded, args)
	case "#BTRANS":
		err = p.parsePosting(n, line, model.PostingRemoved, args)
	case "#FNAMN":
		if len(args) > 0 {
			p.doc.Company.Name = args[0].text
		}
	case "#ORGNR":
		if len(args) > 0 {
			p.doc.Company.OrgNumber = args[0].text
		}
	case "#KPTYP":
		if len(args) > 0 {
			p.doc.Company.ChartType = args[0].text
		}
	case "#RAR":
		err = p.parseFiscalYear(args)
	}
	if err != nil {
		p.malformed(n, line, err)
	}
}

func (p *parser) parseAccount(args []field) error {
	if len(args) < 1 {
		return fmt.Errorf("missing account number")
	}
	num, err := parseAccountNumber(args[0])
	if err != nil {
		return err
	}
	st := p.account(num)
	if len(args) > 1 {
		st.name = strings.TrimSpace(args[1].text)
	}
	return nil
}

func (p *parser) parseAuxCode(args []field) error {
	if len(args) < 2 {
		return fmt.Errorf("expected account and code")
	}
	num, err := parseAccountNumber(args[0])
	if err != nil {
		return err
	}
	code, err := strconv.Atoi(args[1].text)
	if err != nil {
		return fmt.Errorf("parsing code %q: %w", args[1].text, err)
	}
	p.account(num).aux = code
	return nil
}

func (p *parser) parseAccountType(args []field) error {
	if len(args) < 2 {
		return fmt.Errorf("expected account and type")
	}
	num, err := parseAccountNumber(args[0])
	if err != nil {
		return err
	}
	p.account(num).typ = strings.ToUpper(args[1].text)
	return nil
}

// parseBalance handles #IB/#UB/#RES. A later record for the same account,
// year and kind replaces an earlier one.
func (p *parser) parseBalance(kind model.BalanceKind, args []field) error {
	if len(args) < 3 {
		return fmt.Errorf("expected year, account and amount")
	}
	year, err := strconv.Atoi(args[0].text)
	if err != nil {
		return fmt.Errorf("parsing year offset %q: %w", args[0].text, err)
	}
	num, err := parseAccountNumber(args[1])
	if err != nil {
		return err
	}
	raw, _ := takeAmount(args[2:])
	amount, err := ParseAmount(raw)
	if err != nil {
		return err
	}

	switch year {
	case 0:
		p.account(num).current.Set(kind, amount)
	case -1:
		p.account(num).prior.Set(kind, amount)
	}
	return nil
}

func (p *parser) parseFiscalYear(args []field) error {
	if len(args) < 3 || args[0].text != "0" {
		return nil
	}
	start, err := time.Parse(dateFormat, args[1].text)
	if err != nil {
		return fmt.Errorf("parsing fiscal year start %q: %w", args[1].text, err)
	}
	end, err := time.Parse(dateFormat, args[2].text)
	if err != nil {
		return fmt.Errorf("parsing fiscal year end %q: %w", args[2].text, err)
	}
	p.doc.Company.YearStart = start
	p.doc.Company.YearEnd = end
	return nil
}

func (p *parser) parseHeader(n int, args []field) error {
	if p.inBlock {
		p.warn(model.Warning{
			Code:    model.WarnUnterminatedBlock,
			Line:    p.blockLine,
			Voucher: p.blockID(),
			Message: fmt.Sprintf("voucher block not closed before header on line %d; closed implicitly", n),
		})
		p.closeBlock()
	}
	p.header = nil

	if len(args) < 3 {
		return fmt.Errorf("expected series, number and date")
	}
	number, err := strconv.Atoi(args[1].text)
	if err != nil {
		return fmt.Errorf("parsing voucher number %q: %w", args[1].text, err)
	}
	if len(args[2].text) != len(dateFormat) {
		return fmt.Errorf("voucher date %q is not YYYYMMDD", args[2].text)
	}
	date, err := time.Parse(dateFormat, args[2].text)
	if err != nil {
		return fmt.Errorf("parsing voucher date %q: %w", args[2].text, err)
	}

	var text string
	if len(args) > 3 {
		if args[3].quoted {
			text = args[3].text
		} else {
			parts := make([]string, 0, len(args)-3)
			for _, f := range args[3:] {
				parts = append(parts, f.text)
			}
			text = strings.Join(parts, " ")
		}
	}

	p.header = &model.Voucher{
		Series: args[0].text,
		Number: number,
		Date:   date,
		Text:   text,
		Line:   n,
	}
	return nil
}

func (p *parser) parsePosting(n int, raw string, variant model.PostingVariant, args []field) error {
	if !p.inBlock || p.block == nil {
		p.warn(model.Warning{
			Code:    model.WarnStrayPosting,
			Line:    n,
			Raw:     raw,
			Message: "posting outside a voucher block discarded",
		})
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("expected account and amount")
	}
	num, err := parseAccountNumber(args[0])
	if err != nil {
		return err
	}
	rest := args[1:]
	if rest[0].object {
		rest = rest[1:]
	}
	text, _ := takeAmount(rest)
	amount, err := ParseAmount(text)
	if err != nil {
		return err
	}
	p.block.Postings = append(p.block.Postings, model.Posting{
		Account: num,
		Amount:  amount,
		Variant: variant,
		Line:    n,
	})
	return nil
}

func (p *parser) openBlock(n int) {
	if p.inBlock {
		p.warn(model.Warning{
			Code:    model.WarnNestedBlock,
			Line:    n,
			Voucher: p.blockID(),
			Message: "nested opening brace ignored",
		})
		return
	}
	p.inBlock = true
	p.blockLine = n
	p.block = p.header
	p.header = nil
	if p.block == nil {
		p.warn(model.Warning{
			Code:    model.WarnOrphanBlock,
			Line:    n,
			Message: "block without a preceding voucher header; its postings are discarded",
		})
	}
}

func (p *parser) closeBlock() {
	if v := p.block; v != nil {
		id := v.ID()
		if first, dup := p.seen[id]; dup {
			p.warn(model.Warning{
				Code:    model.WarnDuplicateVoucher,
				Line:    v.Line,
				Voucher: id,
				Message: fmt.Sprintf("voucher %s already declared on line %d; both are kept", id, first),
			})
		} else {
			p.seen[id] = v.Line
		}
		p.doc.Vouchers = append(p.doc.Vouchers, *v)
	}
	p.block = nil
	p.inBlock = false
}

func (p *parser) blockID() string {
	if p.block == nil {
		return ""
	}
	return p.block.ID()
}

func (p *parser) account(num int) *accountState {
	st, ok := p.accounts[num]
	if !ok {
		st = &accountState{}
		p.accounts[num] = st
	}
	return st
}

func (p *parser) finishAccounts() {
	nums := make([]int, 0, len(p.accounts))
	for num := range p.accounts {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	p.doc.Accounts = make([]model.Account, 0, len(nums))
	for _, num := range nums {
		st := p.accounts[num]
		acct := model.Account{
			Number:   num,
			Name:     st.name,
			Type:     st.typ,
			AuxCode:  st.aux,
			Category: model.CategoryUnclassified,
			Rule:     model.RuleNone,
			Current:  st.current,
			Prior:    st.prior,
		}
		if acct.Name == "" {
			acct.Name = model.PlaceholderName(num)
		}
		acct.Used = acct.IsUsed(p.opts.UsedEpsilon)
		p.doc.Accounts = append(p.doc.Accounts, acct)
	}
}

// malformed records a line that matched a known tag but not its shape.
func (p *parser) malformed(n int, raw string, err error) {
	p.warn(model.Warning{
		Code:    model.WarnMalformedLine,
		Line:    n,
		Raw:     raw,
		Message: err.Error(),
	})
}

func (p *parser) warn(w model.Warning) {
	p.doc.Warnings = append(p.doc.Warnings, w)
}

func parseAccountNumber(f field) (int, error) {
	if !accountNumber.MatchString(f.text) {
		return 0, fmt.Errorf("invalid account number %q", f.text)
	}
	return strconv.Atoi(f.text)
}
