package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/services"
)

var (
	ErrUsage          = errors.New("usage")
	ErrUnknownCommand = errors.New("unknown command")
)

const usage = `Usage: invoicekeeper [flags] <command> [args]

Commands:
  migrate                                 apply schema migrations
  useradd <username> <email>              create a user (password is prompted)
  login <username>                        check a user's password
  invoice-new <owner_id> [name=price ...] create an invoice with line items
  item-add <invoice_id> <name> <price>    add a line item
  proof-add <invoice_id> <file>           attach a file as proof
  grant <invoice_id> <borrower_id> <r|w|rw|->
                                          grant access to another user
  access <user_id> <invoice_id>           show a user's access to an invoice
  show <invoice_id>                       print an invoice
  help                                    print this text
`

type userService interface {
	Create(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type invoiceService interface {
	Create(ctx context.Context, ownerID int64, items ...services.Item) (*models.Invoice, []*models.InvoiceLineItem, error)
	Get(ctx context.Context, id int64) (*models.Invoice, error)
	AddLineItem(ctx context.Context, invoiceID int64, item services.Item) (*models.InvoiceLineItem, error)
	LineItems(ctx context.Context, invoiceID int64) ([]*models.InvoiceLineItem, error)
	Total(ctx context.Context, invoiceID int64) (models.Cents, error)
	AttachProof(ctx context.Context, invoiceID int64, data []byte) (*models.InvoiceProof, error)
	ProofInfos(ctx context.Context, invoiceID int64) ([]*models.InvoiceProofInfo, error)
	Grant(ctx context.Context, p models.NewInvoicePermissions) (*models.InvoicePermissions, error)
	Access(ctx context.Context, userID, invoiceID int64) (services.Access, error)
	Permissions(ctx context.Context, invoiceID int64) ([]*models.InvoicePermissions, error)
}

// Commands executes one CLI command against the services.
type Commands struct {
	users    userService
	invoices invoiceService
	migrate  func(context.Context) error
	readFile func(string) ([]byte, error)
	in       *bufio.Reader
	out      io.Writer
}

// Run dispatches args[0] with the remaining args.
func (c *Commands) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.help()
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		c.help()
		return nil
	case "migrate":
		return c.runMigrate(ctx, rest)
	case "useradd":
		return c.userAdd(ctx, rest)
	case "login":
		return c.login(ctx, rest)
	case "invoice-new":
		return c.invoiceNew(ctx, rest)
	case "item-add":
		return c.itemAdd(ctx, rest)
	case "proof-add":
		return c.proofAdd(ctx, rest)
	case "grant":
		return c.grant(ctx, rest)
	case "access":
		return c.access(ctx, rest)
	case "show":
		return c.show(ctx, rest)
	default:
		c.help()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (c *Commands) help() {
	fmt.Fprint(c.out, usage)
}

func usageErr(format string) error {
	return fmt.Errorf("%w: %s", ErrUsage, format)
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrUsage, name, s)
	}
	return id, nil
}

func (c *Commands) runMigrate(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return usageErr("migrate")
	}
	if err := c.migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "migrations applied")
	return nil
}

func (c *Commands) userAdd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageErr("useradd <username> <email>")
	}

	pw, err := GetPassword(c.in, c.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	user, err := c.users.Create(ctx, args[0], args[1], string(pw))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "created user %d (%s)\n", user.UserID, user.Username)
	return nil
}

func (c *Commands) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageErr("login <username>")
	}

	pw, err := GetPassword(c.in, c.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	user, err := c.users.Authenticate(ctx, args[0], string(pw))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "authenticated as user %d\n", user.UserID)
	return nil
}

// parseItem parses "name=price"; the last '=' separates the price so names
// may contain '='.
func parseItem(s string) (services.Item, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return services.Item{}, fmt.Errorf("%w: item must be name=price, got %q", ErrUsage, s)
	}
	price, err := models.ParseCents(s[i+1:])
	if err != nil {
		return services.Item{}, err
	}
	return services.Item{Name: s[:i], Price: price}, nil
}

func (c *Commands) invoiceNew(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageErr("invoice-new <owner_id> [name=price ...]")
	}

	ownerID, err := parseID("owner_id", args[0])
	if err != nil {
		return err
	}

	items := make([]services.Item, 0, len(args)-1)
	for _, a := range args[1:] {
		it, err := parseItem(a)
		if err != nil {
			return err
		}
		items = append(items, it)
	}

	invoice, stored, err := c.invoices.Create(ctx, ownerID, items...)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "created invoice %d (%d items)\n", invoice.InvoiceID, len(stored))
	return nil
}

func (c *Commands) itemAdd(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usageErr("item-add <invoice_id> <name> <price>")
	}

	invoiceID, err := parseID("invoice_id", args[0])
	if err != nil {
		return err
	}
	price, err := models.ParseCents(args[2])
	if err != nil {
		return err
	}

	li, err := c.invoices.AddLineItem(ctx, invoiceID, services.Item{Name: args[1], Price: price})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "added item %d to invoice %d: %s %s\n", li.ID, li.InvoiceID, li.ItemName, li.ItemPriceUSD)
	return nil
}

func (c *Commands) proofAdd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageErr("proof-add <invoice_id> <file>")
	}

	invoiceID, err := parseID("invoice_id", args[0])
	if err != nil {
		return err
	}
	data, err := c.readFile(args[1])
	if err != nil {
		return err
	}

	proof, err := c.invoices.AttachProof(ctx, invoiceID, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "attached proof %d to invoice %d (%d bytes)\n", proof.ProofID, proof.InvoiceID, len(proof.Data))
	return nil
}

// parseAccess reads "r", "w", "rw" (or "wr"), or "-" for no access.
func parseAccess(s string) (read, write bool, err error) {
	if s == "-" {
		return false, false, nil
	}
	if s == "" || len(s) > 2 {
		return false, false, fmt.Errorf("%w: access must be r, w, rw or -, got %q", ErrUsage, s)
	}
	for _, ch := range s {
		switch {
		case ch == 'r' && !read:
			read = true
		case ch == 'w' && !write:
			write = true
		default:
			return false, false, fmt.Errorf("%w: access must be r, w, rw or -, got %q", ErrUsage, s)
		}
	}
	return read, write, nil
}

func (c *Commands) grant(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usageErr("grant <invoice_id> <borrower_id> <r|w|rw|->")
	}

	invoiceID, err := parseID("invoice_id", args[0])
	if err != nil {
		return err
	}
	borrowerID, err := parseID("borrower_id", args[1])
	if err != nil {
		return err
	}
	read, write, err := parseAccess(args[2])
	if err != nil {
		return err
	}

	perm, err := c.invoices.Grant(ctx, models.NewInvoicePermissions{
		BorrowerID:  borrowerID,
		InvoiceID:   invoiceID,
		ReadAccess:  read,
		WriteAccess: write,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "granted access %d: user %d on invoice %d read=%t write=%t\n",
		perm.AccessID, perm.BorrowerID, perm.InvoiceID, perm.ReadAccess, perm.WriteAccess)
	return nil
}

func (c *Commands) access(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageErr("access <user_id> <invoice_id>")
	}

	userID, err := parseID("user_id", args[0])
	if err != nil {
		return err
	}
	invoiceID, err := parseID("invoice_id", args[1])
	if err != nil {
		return err
	}

	a, err := c.invoices.Access(ctx, userID, invoiceID)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "read=%t write=%t\n", a.Read, a.Write)
	return nil
}

func (c *Commands) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageErr("show <invoice_id>")
	}

	invoiceID, err := parseID("invoice_id", args[0])
	if err != nil {
		return err
	}

	invoice, err := c.invoices.Get(ctx, invoiceID)
	if err != nil {
		return err
	}
	items, err := c.invoices.LineItems(ctx, invoiceID)
	if err != nil {
		return err
	}
	total, err := c.invoices.Total(ctx, invoiceID)
	if err != nil {
		return err
	}
	proofs, err := c.invoices.ProofInfos(ctx, invoiceID)
	if err != nil {
		return err
	}
	perms, err := c.invoices.Permissions(ctx, invoiceID)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "invoice %d (owner %d)\n", invoice.InvoiceID, invoice.OwnerID)
	for _, li := range items {
		fmt.Fprintf(c.out, "  item %d\t%s\t%s\n", li.ID, li.ItemName, li.ItemPriceUSD)
	}
	fmt.Fprintf(c.out, "  total\t%s\n", total)
	for _, p := range proofs {
		fmt.Fprintf(c.out, "  proof %d\t%d bytes\n", p.ProofID, p.Size)
	}
	for _, p := range perms {
		fmt.Fprintf(c.out, "  access %d\tuser %d\tread=%t write=%t\n", p.AccessID, p.BorrowerID, p.ReadAccess, p.WriteAccess)
	}
	return nil
}
