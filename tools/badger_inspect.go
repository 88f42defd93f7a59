package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"

	"chat-core/repositories"
)

// badger_inspect dumps stored conversations or messages as a table, for
// poking at a database without the server running.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, conv:, profile:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "At", "Sender", "Text", "Read By"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				switch {
				case strings.HasPrefix(rawKey, "msg:"):
					var m repositories.DiskMessage
					if err := sonic.Unmarshal(v, &m); err != nil {
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					table.Append([]string{
						shorten(rawKey),
						time.Unix(0, m.At).UTC().Format("15:04:05"),
						m.SenderID,
						m.Text,
						strings.Join(m.ReadBy, ","),
					})
				case strings.HasPrefix(rawKey, "conv:"):
					var c repositories.DiskConversation
					if err := sonic.Unmarshal(v, &c); err != nil {
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					preview := ""
					if c.LastMessage != nil {
						preview = c.LastMessage.Text
					}
					table.Append([]string{
						shorten(rawKey),
						time.Unix(0, c.UpdatedAt).UTC().Format("15:04:05"),
						c.Participants[0] + " / " + c.Participants[1],
						preview,
						"",
					})
				default:
					table.Append([]string{shorten(rawKey), "", "", string(v), ""})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table.Render()
}

// shorten keeps keys readable in the table output.
func shorten(key string) string {
	if len(key) > 48 {
		return key[:48] + "…"
	}
	return key
}
