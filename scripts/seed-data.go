package main

import (
	"log"

	"github.com/lectorio/lectorio/pkg/database"
)

func main() {
	if err := database.InitDatabase("data/lectorio.db"); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.DB.Close()

	_, err := database.DB.Exec(`INSERT OR IGNORE INTO series (id, title, author, synopsis) VALUES
		('aurora-verde', 'Aurora Verde', 'L. Campos', 'A gardener discovers her plants glow at night'),
		('ultimo-tren', 'El Ultimo Tren', 'M. Ibarra', 'Two strangers share the last train out of a drowned city')`)
	if err != nil {
		log.Fatalf("Failed to insert series: %v", err)
	}

	_, err = database.DB.Exec(`INSERT OR IGNORE INTO chapters (id, series_id, number, title) VALUES
		('av-ch1', 'aurora-verde', 1, 'Seeds'),
		('av-ch2', 'aurora-verde', 2, 'First Light'),
		('ut-ch1', 'ultimo-tren', 1, 'Platform Nine')`)
	if err != nil {
		log.Fatalf("Failed to insert chapters: %v", err)
	}

	_, err = database.DB.Exec(`DELETE FROM users WHERE id = 'user123'`)
	if err != nil {
		log.Printf("Note: Could not delete existing user: %v", err)
	}

	result, err := database.DB.Exec(`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ('user123', 'testuser', 'testuser@example.com', '$2a$10$dummy', CURRENT_TIMESTAMP)`)
	if err != nil {
		log.Fatalf("Failed to insert user: %v", err)
	}

	rows, _ := result.RowsAffected()
	log.Printf("Inserted %d user(s)", rows)

	log.Println("Test data inserted successfully")
}
