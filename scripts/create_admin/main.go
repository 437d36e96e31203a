package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Eamse/gaon/internal/db"
)

// 관리자 계정 생성 스크립트.
// 사용법: go run ./scripts/create_admin [username] [password] [name]
// 인자를 생략하면 대화식으로 입력받는다.
func main() {
	_ = godotenv.Load()

	if err := db.Init(os.Getenv("DATABASE_PATH")); err != nil {
		log.Fatal("데이터베이스 초기화 실패:", err)
	}

	username, password, name := readArgs()
	if username == "" || password == "" {
		log.Fatal("아이디와 비밀번호는 비울 수 없습니다")
	}

	var existing db.User
	if err := db.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Printf("이미 존재하는 계정입니다: %s\n", username)
		return
	}

	if err := db.EnsureUser(db.DB, username, password, name); err != nil {
		log.Fatal("계정 생성 실패:", err)
	}

	fmt.Printf("관리자 계정이 생성되었습니다: %s\n", username)
}

func readArgs() (username, password, name string) {
	args := os.Args[1:]
	if len(args) >= 2 {
		username = strings.TrimSpace(args[0])
		password = strings.TrimSpace(args[1])
		if len(args) >= 3 {
			name = strings.TrimSpace(args[2])
		}
		return username, password, name
	}

	reader := bufio.NewReader(os.Stdin)
	username = prompt(reader, "아이디: ")
	password = prompt(reader, "비밀번호: ")
	name = prompt(reader, "이름(선택): ")
	return username, password, name
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
