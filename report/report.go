// Package report renders draws, the ledger and the richest players as text.
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/gamemath"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/player"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/settlement"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/ticket"
)

var printer = message.NewPrinter(language.English)

// Money formats cents as dollars with thousands separators, e.g. $1,234.56.
func Money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + printer.Sprintf("$%d.%02d", cents/100, cents%100)
}

// Ledger is the state of the books at one point in time.
type Ledger struct {
	LastDraw          int   `json:"lastDraw"`
	OperatorBalance   int64 `json:"operatorBalance"`
	Rollover          int64 `json:"rollover"`
	TreasuryIncome    int64 `json:"treasuryIncome"`
	TreasurySubsidies int64 `json:"treasurySubsidies"`
}

// LedgerOf reads the current books of e.
func LedgerOf(e *settlement.Engine) Ledger {
	tr := e.Treasury()
	return Ledger{
		LastDraw:          e.LastDraw(),
		OperatorBalance:   e.Balance(),
		Rollover:          e.Rollover(),
		TreasuryIncome:    tr.Income(),
		TreasurySubsidies: tr.Subsidies(),
	}
}

// WriteDraw prints one draw's winning numbers, pools, winners and prizes.
func WriteDraw(w io.Writer, r round.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Draw no. %d\n", r.Number)
	fmt.Fprintf(&b, "Results:%s\n", numbers(r.Winning))
	b.WriteString("Combined prize pools:\n")
	for i, g := range gamemath.PrizeTable {
		fmt.Fprintf(&b, "  %-4s%s\n", g.Name, Money(r.Pools[i]))
	}
	b.WriteString("Number of winners:\n")
	for i, g := range gamemath.PrizeTable {
		fmt.Fprintf(&b, "  %-4s%s\n", g.Name, printer.Sprintf("%d", r.Winners[i]))
	}
	b.WriteString("Prize amounts:\n")
	for i, g := range gamemath.PrizeTable {
		prize := "no hit"
		if r.Prizes[i] != 0 {
			prize = Money(r.Prizes[i])
		}
		fmt.Fprintf(&b, "  %-4s%s\n", g.Name, prize)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDraws prints every draw separated by blank lines.
func WriteDraws(w io.Writer, draws []round.Result) error {
	for _, r := range draws {
		if err := WriteDraw(w, r); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func WriteLedger(w io.Writer, l Ledger) error {
	_, err := fmt.Fprintf(w,
		"Draws executed: %d\nLottery headquarters have %s\nRollover: %s\nThe state received %s\nThe state gave the lottery headquarters %s in subsidies.\n",
		l.LastDraw, Money(l.OperatorBalance), Money(l.Rollover), Money(l.TreasuryIncome), Money(l.TreasurySubsidies))
	return err
}

// TicketStatus is what an outlet knows about one ticket it sold.
type TicketStatus struct {
	ID        string `json:"id"`
	Outlet    int    `json:"outlet"`
	FirstDraw int    `json:"firstDraw"`
	LastDraw  int    `json:"lastDraw"`
	Draws     int    `json:"draws"`
	Bets      int    `json:"bets"`
	Price     int64  `json:"price"`
	Claimed   bool   `json:"claimed"`
	Finished  bool   `json:"finished"` // every covered draw has run
}

func TicketStatusOf(t *ticket.Ticket, claimed bool, lastDraw int) TicketStatus {
	return TicketStatus{
		ID:        t.ID().String(),
		Outlet:    t.ID().Outlet,
		FirstDraw: t.FirstDraw(),
		LastDraw:  t.LastDraw(),
		Draws:     t.DrawCount(),
		Bets:      len(t.Bets()),
		Price:     t.Price(),
		Claimed:   claimed,
		Finished:  t.AllDrawsDone(lastDraw),
	}
}

// WriteTicket prints a ticket's coverage and claim state.
func WriteTicket(w io.Writer, s TicketStatus) error {
	state := "outstanding"
	switch {
	case s.Claimed:
		state = "claimed"
	case s.Finished:
		state = "ready to claim"
	}
	_, err := fmt.Fprintf(w, "Ticket %s\nOutlet: %d\nDraws: %d-%d (%d)\nBets: %d\nPrice: %s\nState: %s\n",
		s.ID, s.Outlet, s.FirstDraw, s.LastDraw, s.Draws, s.Bets, Money(s.Price), state)
	return err
}

// WriteMillionaires lists the given players with their balances.
func WriteMillionaires(w io.Writer, players []*player.Player) error {
	var b strings.Builder
	b.WriteString("Millionaires:\n")
	if len(players) == 0 {
		b.WriteString("nobody became a millionaire\n")
	}
	for _, p := range players {
		fmt.Fprintf(&b, "%s %s\nID: %s\nBalance: %s\n", p.Persona.Name, p.Persona.Surname, p.Persona.ID, Money(p.Balance()))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func numbers(ns []int) string {
	var b strings.Builder
	for _, n := range ns {
		fmt.Fprintf(&b, " %2d", n)
	}
	return b.String()
}
