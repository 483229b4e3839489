package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Dastanbekov/jumushtap1/internal/api"
	"github.com/Dastanbekov/jumushtap1/internal/config"
	"github.com/Dastanbekov/jumushtap1/internal/domain"
	"github.com/Dastanbekov/jumushtap1/internal/observability"
	"github.com/Dastanbekov/jumushtap1/internal/repository"
	"github.com/Dastanbekov/jumushtap1/internal/router"
	"github.com/Dastanbekov/jumushtap1/internal/securestore"
	"github.com/Dastanbekov/jumushtap1/internal/session"
)

const usage = `usage: client <command> [flags]

commands:
  status    probe the stored session and print the target surface
  login     -email -password
  register  -email -password -phone -role worker|business|individual [profile flags]
  me        fetch and print the authenticated profile
  refresh   exchange the refresh token for a new access token
  logout    clear the stored session
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Explicit wiring, constructed once and passed down. No globals.
	store, err := securestore.New(cfg.Store, cfg.Redis, logger)
	if err != nil {
		log.Fatalf("failed to open secure store: %v", err)
	}
	client := api.NewClient(cfg.API, logger)
	repo := repository.NewAuthRepository(client, store, logger)
	machine := session.NewMachine(repo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go machine.Run(ctx)

	states := make(chan session.State, 8)
	machine.Subscribe(func(state session.State) {
		states <- state
	})

	switch os.Args[1] {
	case "status":
		machine.Dispatch(session.CheckRequested{})
		waitTerminal(states)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(os.Args[2:])

		machine.Dispatch(session.LoginRequested{Email: *email, Password: *password})
		waitTerminal(states)

	case "register":
		reg := parseRegisterFlags(os.Args[2:])
		machine.Dispatch(session.RegisterRequested{Registration: reg})
		waitTerminal(states)

	case "logout":
		machine.Dispatch(session.LogoutRequested{})
		waitTerminal(states)

	case "me":
		account, err := repo.GetProfile(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		printAccount(account)

	case "refresh":
		if err := repo.Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if info, err := repo.SessionInfo(ctx); err == nil {
			fmt.Printf("access token refreshed, valid until %s\n", info.ExpiresAt.Format(time.RFC3339))
		} else {
			fmt.Println("access token refreshed")
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// waitTerminal drains the state stream until a non-transient state
// arrives, printing the surface the router policy selects.
func waitTerminal(states <-chan session.State) {
	for state := range states {
		switch state.Status {
		case session.StatusLoading:
			continue
		case session.StatusError:
			fmt.Fprintf(os.Stderr, "error: %s\n", state.Message)
			os.Exit(1)
		default:
			fmt.Printf("session: %s", state.Status)
			if state.Role != "" {
				fmt.Printf(" (%s)", state.Role)
			}
			fmt.Printf(" -> %s\n", routeName(router.Resolve(state)))
			return
		}
	}
}

func routeName(route router.Route) string {
	if route == router.RouteNone {
		return "hold"
	}
	return string(route)
}

func parseRegisterFlags(args []string) domain.Registration {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	phone := fs.String("phone", "", "phone number")
	role := fs.String("role", "", "worker | business | individual")

	fullName := fs.String("full-name", "", "worker: full name")
	companyName := fs.String("company", "", "business: company name")
	bin := fs.String("bin", "", "business: BIN")
	inn := fs.String("inn", "", "business: INN")
	legalAddress := fs.String("legal-address", "", "business: legal address")
	contactName := fs.String("contact-name", "", "business: contact name")
	contactNumber := fs.String("contact-number", "", "business: contact number")
	fullNameRu := fs.String("full-name-ru", "", "individual: full name")
	_ = fs.Parse(args)

	parsedRole, err := domain.ParseRole(*role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	var profile domain.Profile
	switch parsedRole {
	case domain.RoleWorker:
		profile = domain.WorkerProfile{FullName: *fullName}
	case domain.RoleBusiness:
		profile = domain.BusinessProfile{
			CompanyName:   *companyName,
			BIN:           *bin,
			INN:           *inn,
			LegalAddress:  *legalAddress,
			ContactName:   *contactName,
			ContactNumber: *contactNumber,
		}
	case domain.RoleIndividual:
		profile = domain.IndividualProfile{FullNameRu: *fullNameRu}
	}

	return domain.Registration{
		Email:    *email,
		Password: *password,
		Phone:    *phone,
		Role:     parsedRole,
		Profile:  profile,
	}
}

func printAccount(account *domain.Account) {
	fmt.Printf("id:    %s\nemail: %s\nphone: %s\nrole:  %s\n", account.ID, account.Email, account.Phone, account.Role)
	switch profile := account.Profile.(type) {
	case domain.WorkerProfile:
		fmt.Printf("name:  %s\n", profile.FullName)
	case domain.BusinessProfile:
		fmt.Printf("company: %s (BIN %s, INN %s)\naddress: %s\ncontact: %s %s\n",
			profile.CompanyName, profile.BIN, profile.INN,
			profile.LegalAddress, profile.ContactName, profile.ContactNumber)
	case domain.IndividualProfile:
		fmt.Printf("name:  %s\n", profile.FullNameRu)
	}
}
