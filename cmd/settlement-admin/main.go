package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/owlpay/settlement-service/internal/config"
	"github.com/owlpay/settlement-service/internal/domain"
	"github.com/owlpay/settlement-service/internal/infrastructure/gateway"
	publisher "github.com/owlpay/settlement-service/internal/infrastructure/kafka"
	"github.com/owlpay/settlement-service/internal/infrastructure/metrics"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres"
	"github.com/owlpay/settlement-service/internal/infrastructure/postgres/repository"
	accountinguc "github.com/owlpay/settlement-service/internal/usecase/accounting"
	payoutuc "github.com/owlpay/settlement-service/internal/usecase/payout"
	transferuc "github.com/owlpay/settlement-service/internal/usecase/transfer"
)

const usage = `Usage: settlement-admin <task> [args]

Tasks:
  order_transfer:undo_confirm {transfer_uuid}        revert a confirmed transfer
  order_transfer:confirm      {transfer_uuid}        settle a transfer
  order_transfer:pick_off     {transfer_uuid} {order_uuid}
                                                     cancel one order out of a transfer
  order_transfer:pack         {application_uuid}     group loose orders into transfers
  order_transfer:show         {transfer_uuid}        print a transfer and its member orders
  accounting:create           {application_uuid} {schedule_date YYYY-MM-DD} [--payout_gateway=NAME]
  accounting:payout           {accounting_uuid} [--payout_gateway=NAME]
  accounting:finish           {accounting_uuid}
  payout:mark_status          {finish|failed} {application_uuid} {payout_uuid}
`

type cli struct {
	transferUC   transferuc.TransferUsecase
	accountingUC accountinguc.AccountingUsecase
	payoutUC     payoutuc.PayoutUsecase
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	cfg := config.MustLoad()
	db := postgres.MustInitDB(cfg)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers, publisher.Topics{
		Settlement: cfg.KafkaService.SettlementTopic,
		Payout:     cfg.KafkaService.PayoutTopic,
	})
	defer pub.Close()

	settlementMetrics := metrics.NewSettlementMetrics()

	transferRepo := repository.NewDefaultTransferRepository(db)
	orderRepo := repository.NewDefaultOrderRepository(db)
	accountingRepo := repository.NewDefaultAccountingRepository(db)
	payoutRepo := repository.NewDefaultPayoutRepository(db)
	appRepo := repository.NewDefaultApplicationRepository(db)

	gatewayRegistry := gateway.NewRegistry(
		gateway.NewSandboxGateway(),
		gateway.NewCathayGateway(cfg.Gateways.Cathay),
		gateway.NewCRBGateway(cfg.Gateways.CRB),
		gateway.NewFiservGateway(cfg.Gateways.Fiserv),
		gateway.NewTinkGateway(cfg.Gateways.Tink),
		gateway.NewNiumGateway(cfg.Gateways.Nium),
		gateway.NewVisaGateway(cfg.Gateways.Visa),
	)

	c := &cli{
		transferUC:   transferuc.NewDefaultTransferUsecase(transferRepo, orderRepo, appRepo, pub, settlementMetrics),
		accountingUC: accountinguc.NewDefaultAccountingUsecase(accountingRepo, appRepo, payoutRepo, gatewayRegistry, pub, settlementMetrics),
		payoutUC:     payoutuc.NewDefaultPayoutUsecase(payoutRepo, appRepo, pub, settlementMetrics),
	}

	task := os.Args[1]
	args, flags := splitFlags(os.Args[2:])

	ctx := context.Background()
	var err error

	switch task {
	case "order_transfer:undo_confirm":
		err = c.undoConfirm(ctx, args)
	case "order_transfer:confirm":
		err = c.confirm(ctx, args)
	case "order_transfer:pick_off":
		err = c.pickOff(ctx, args)
	case "order_transfer:pack":
		err = c.pack(ctx, args)
	case "order_transfer:show":
		err = c.show(ctx, args)
	case "accounting:create":
		err = c.createAccounting(ctx, args, flags)
	case "accounting:payout":
		err = c.executePayouts(ctx, args, flags)
	case "accounting:finish":
		err = c.finishAccounting(ctx, args)
	case "payout:mark_status":
		err = c.markPayoutStatus(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown task %q\n\n%s", task, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", task, err)
	}
}

// splitFlags separates positional args from --key=value flags.
func splitFlags(raw []string) ([]string, map[string]string) {
	var args []string
	flags := make(map[string]string)
	for _, a := range raw {
		if strings.HasPrefix(a, "--") {
			key, value, _ := strings.Cut(strings.TrimPrefix(a, "--"), "=")
			flags[key] = value
			continue
		}
		args = append(args, a)
	}
	return args, flags
}

func requireUUID(args []string, pos int, name string) (string, error) {
	if len(args) <= pos {
		return "", fmt.Errorf("missing %s argument\n\n%s", name, usage)
	}
	if _, err := uuid.Parse(args[pos]); err != nil {
		return "", fmt.Errorf("%s %q is not a valid uuid", name, args[pos])
	}
	return args[pos], nil
}

func confirmPrompt(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func (c *cli) undoConfirm(ctx context.Context, args []string) error {
	transferID, err := requireUUID(args, 0, "transfer_uuid")
	if err != nil {
		return err
	}
	if !confirmPrompt(fmt.Sprintf("Revert transfer %s and its orders back to editable state?", transferID)) {
		fmt.Println("aborted")
		return nil
	}

	revert, err := c.transferUC.UndoConfirm(ctx, transferID)
	if err != nil {
		return err
	}

	fmt.Printf("transfer %s reverted to %s, %d detail rows back to checking\n",
		revert.Transfer.ID, revert.Transfer.Status, len(revert.Audit))
	return nil
}

func (c *cli) confirm(ctx context.Context, args []string) error {
	transferID, err := requireUUID(args, 0, "transfer_uuid")
	if err != nil {
		return err
	}

	t, err := c.transferUC.Confirm(ctx, transferID)
	if err != nil {
		return err
	}
	fmt.Printf("transfer %s settled, total %.2f %s\n", t.ID, t.Total, t.Currency)
	return nil
}

func (c *cli) pickOff(ctx context.Context, args []string) error {
	transferID, err := requireUUID(args, 0, "transfer_uuid")
	if err != nil {
		return err
	}
	orderID, err := requireUUID(args, 1, "order_uuid")
	if err != nil {
		return err
	}
	if !confirmPrompt(fmt.Sprintf("Cancel order %s and remove it from transfer %s?", orderID, transferID)) {
		fmt.Println("aborted")
		return nil
	}

	result, err := c.transferUC.PickOff(ctx, transferID, orderID)
	if err != nil {
		return err
	}
	fmt.Printf("order %s cancelled, transfer %s total is now %.2f %s\n",
		result.Order.ID, result.Transfer.ID, result.Transfer.Total, result.Transfer.Currency)
	return nil
}

func (c *cli) pack(ctx context.Context, args []string) error {
	appID, err := requireUUID(args, 0, "application_uuid")
	if err != nil {
		return err
	}

	transfers, err := c.transferUC.PackOrders(ctx, appID)
	if err != nil {
		return err
	}
	fmt.Printf("packed orders into %d transfers\n", len(transfers))
	return nil
}

func (c *cli) show(ctx context.Context, args []string) error {
	transferID, err := requireUUID(args, 0, "transfer_uuid")
	if err != nil {
		return err
	}

	t, orders, err := c.transferUC.Inspect(ctx, transferID)
	if err != nil {
		return err
	}
	fmt.Printf("transfer %s  status=%s  total=%.2f %s  vendor=%s\n",
		t.ID, t.Status, t.Total, t.Currency, t.VendorID)
	for _, o := range orders {
		fmt.Printf("  order %s  status=%s  total=%.2f %s\n", o.ID, o.Status, o.Total, o.Currency)
	}
	return nil
}

func (c *cli) createAccounting(ctx context.Context, args []string, flags map[string]string) error {
	appID, err := requireUUID(args, 0, "application_uuid")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("missing schedule_date argument\n\n%s", usage)
	}
	scheduleDate, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return fmt.Errorf("schedule_date %q must be YYYY-MM-DD", args[1])
	}

	accounting, payouts, err := c.accountingUC.Create(ctx, appID, flags["payout_gateway"], scheduleDate)
	if err != nil {
		return err
	}
	fmt.Printf("accounting %s created with %d payouts, scheduled for %s\n",
		accounting.ID, len(payouts), scheduleDate.Format("2006-01-02"))
	return nil
}

func (c *cli) executePayouts(ctx context.Context, args []string, flags map[string]string) error {
	accountingID, err := requireUUID(args, 0, "accounting_uuid")
	if err != nil {
		return err
	}
	if !confirmPrompt(fmt.Sprintf("Execute payouts for accounting %s? This moves real money.", accountingID)) {
		fmt.Println("aborted")
		return nil
	}

	run, err := c.accountingUC.ExecutePayouts(ctx, accountingID, flags["payout_gateway"])
	if err != nil {
		return err
	}

	var finished, failed int
	for _, res := range run.Results {
		if res.Status == domain.PayoutFinish {
			finished++
		} else {
			failed++
		}
	}
	fmt.Printf("accounting %s executed via %s: %d finished, %d failed\n",
		accountingID, run.Gateway, finished, failed)
	return nil
}

func (c *cli) finishAccounting(ctx context.Context, args []string) error {
	accountingID, err := requireUUID(args, 0, "accounting_uuid")
	if err != nil {
		return err
	}

	accounting, err := c.accountingUC.Finish(ctx, accountingID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountingUnfinished) {
			fmt.Printf("accounting %s still has payouts in_process, not finished\n", accountingID)
			return nil
		}
		return err
	}
	fmt.Printf("accounting %s is now %s\n", accounting.ID, accounting.Status)
	return nil
}

func (c *cli) markPayoutStatus(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing status argument\n\n%s", usage)
	}
	status := domain.PayoutStatus(args[0])
	appID, err := requireUUID(args, 1, "application_uuid")
	if err != nil {
		return err
	}
	payoutID, err := requireUUID(args, 2, "payout_uuid")
	if err != nil {
		return err
	}
	if !confirmPrompt(fmt.Sprintf("Mark payout %s as %s and publish the event?", payoutID, status)) {
		fmt.Println("aborted")
		return nil
	}

	event, err := c.payoutUC.MarkPayoutStatus(ctx, status, appID, payoutID)
	if err != nil {
		if errors.Is(err, domain.ErrPayoutNotInProcess) {
			fmt.Printf("payout %s already reached a terminal status, nothing to do\n", payoutID)
			return nil
		}
		return err
	}
	fmt.Printf("published %s for payout %s\n", event.Type, payoutID)
	return nil
}
