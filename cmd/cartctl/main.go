// Command cartctl drives a cart kept on disk against a running storefront
// API. It is handy for checking the catalog and the WhatsApp order text
// without a browser.
//
//	cartctl list
//	cartctl add <slug> [volume]
//	cartctl qty <key> <n>
//	cartctl rm <key>
//	cartctl show
//	cartctl clear
//	cartctl checkout
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/choudharyperfumes/storefront/cart"
	"github.com/choudharyperfumes/storefront/client"
	"github.com/choudharyperfumes/storefront/config"
)

var errUsage = errors.New("usage: cartctl [-api url] [-cart dir] [-key name] list|add|qty|rm|show|clear|checkout")

func defaultCartDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cartctl")
	}
	return ".cartctl"
}

func defaultAPI() string {
	if v := os.Getenv("SITE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func main() {
	log.SetFlags(0)

	api := flag.String("api", defaultAPI(), "storefront base URL")
	dir := flag.String("cart", defaultCartDir(), "directory the cart file is kept in")
	key := flag.String("key", cart.DefaultKey, "cart name")
	storeName := flag.String("store", config.DefaultStoreName, "store name used in the order message")
	flag.Parse()

	files, err := cart.NewFileStore(*dir)
	if err != nil {
		log.Fatal(err)
	}
	sf := client.New(*api, config.DefaultWhatsAppNumber)

	if err := run(context.Background(), os.Stdout, sf, files, *key, *storeName, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, out io.Writer, sf *client.Storefront, store cart.Persister, key, storeName string, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	notifier := cart.NewNotifier(cart.DefaultToastDuration)
	defer notifier.Stop()
	e := cart.Open(ctx, key, store, notifier)

	switch args[0] {
	case "list":
		for _, p := range sf.GetProducts(ctx) {
			stock := ""
			if !p.InStock {
				stock = " (out of stock)"
			}
			fmt.Fprintf(out, "%-28s %-24s %-8s ₹%v from %s%s\n", p.Slug, p.Name, p.Category, p.Price, p.Volume, stock)
		}
		return nil

	case "add":
		if len(args) < 2 {
			return errUsage
		}
		p, err := sf.GetProductBySlug(ctx, args[1])
		if err != nil {
			return err
		}
		volume := ""
		if len(args) > 2 {
			volume = args[2]
		} else if len(p.Volumes) > 0 {
			volume = p.Volumes[0].Volume
		}
		item, err := cart.NewItem(p.Product, volume)
		if err != nil {
			return err
		}
		if err := e.Add(ctx, item); err != nil {
			return err
		}
		if msg, ok := notifier.Current(); ok {
			fmt.Fprintln(out, msg)
		}

	case "qty":
		if len(args) < 3 {
			return errUsage
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity %q: %w", args[2], err)
		}
		if !e.Has(args[1]) {
			return fmt.Errorf("no cart line %q", args[1])
		}
		if err := e.SetQuantity(ctx, args[1], n); err != nil {
			return err
		}

	case "rm":
		if len(args) < 2 {
			return errUsage
		}
		if err := e.Remove(ctx, args[1]); err != nil {
			return err
		}

	case "clear":
		if err := e.Clear(ctx); err != nil {
			return err
		}

	case "show":

	case "checkout":
		items := e.Items()
		if len(items) == 0 {
			return errors.New("cart is empty")
		}
		msg := cart.ComposeMessage(storeName, items)
		fmt.Fprintln(out, msg)
		fmt.Fprintln(out)
		fmt.Fprintln(out, cart.WhatsAppURL(sf.WhatsAppNumber(ctx), msg))
		return nil

	default:
		return errUsage
	}

	printCart(out, e)
	return nil
}

func printCart(out io.Writer, e *cart.Engine) {
	items := e.Items()
	if len(items) == 0 {
		fmt.Fprintln(out, "cart is empty")
		return
	}
	for _, it := range items {
		fmt.Fprintf(out, "%-36s %-24s x%-3d ₹%s\n", it.Key(), it.Name, it.Quantity, it.Subtotal())
	}
	fmt.Fprintf(out, "%d items, ₹%s\n", e.Count(), e.Total())
}
