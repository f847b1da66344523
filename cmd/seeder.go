package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin user and sample master data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		password := "admin"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		adminUsername := "admin"
		var exists int
		row := db.Raw(`SELECT 1 FROM "user" WHERE username = ?`, adminUsername).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("admin user already exists:", adminUsername)
		} else {
			if err := db.Exec(`INSERT INTO "user" (username, email, first_name, last_name, hashed_password, role, is_active) VALUES (?, ?, ?, ?, ?, ?, true)`,
				adminUsername, "admin@example.com", "Admin", "Admin", string(hash), "admin").Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminUsername)
		}

		costTypes := []struct {
			Code int64
			Name string
		}{
			{100, "Travel"},
			{200, "Office Supplies"},
			{300, "Software"},
		}
		for _, ct := range costTypes {
			row := db.Raw("SELECT 1 FROM type_of_cost WHERE cost_code = ?", ct.Code).Row()
			if err := row.Scan(&exists); err != nil {
				if err := db.Exec("INSERT INTO type_of_cost (cost_code, cost_name) VALUES (?, ?)", ct.Code, ct.Name).Error; err != nil {
					log.Fatalf("failed to insert cost type %s: %v", ct.Name, err)
				}
				fmt.Printf("Seeded cost type: %s\n", ct.Name)
			}
		}

		costCenters := []struct {
			Code int64
			Name string
		}{
			{10, "Engineering"},
			{20, "Sales"},
			{30, "Operations"},
		}
		for _, cc := range costCenters {
			row := db.Raw("SELECT 1 FROM cost_center WHERE cost_center_code = ?", cc.Code).Row()
			if err := row.Scan(&exists); err != nil {
				if err := db.Exec("INSERT INTO cost_center (cost_center_code, cost_center_name) VALUES (?, ?)", cc.Code, cc.Name).Error; err != nil {
					log.Fatalf("failed to insert cost center %s: %v", cc.Name, err)
				}
				fmt.Printf("Seeded cost center: %s\n", cc.Name)
			}
		}

		suppliers := []string{"Acme Corp", "Globex", "Initech"}
		for _, name := range suppliers {
			row := db.Raw("SELECT 1 FROM supplier WHERE supplier_name = ?", name).Row()
			if err := row.Scan(&exists); err != nil {
				if err := db.Exec("INSERT INTO supplier (supplier_name) VALUES (?)", name).Error; err != nil {
					log.Fatalf("failed to insert supplier %s: %v", name, err)
				}
				fmt.Printf("Seeded supplier: %s\n", name)
			}
		}

		fmt.Println("Seeding completed")
	},
}
