package main

import "spending/commands"

// @title 个人消费记账 API
// @version 1.0
// @description 家庭/个人消费记账服务：目录管理、消费与信用卡还款、年度/月度报表导出、备份与合并导入
// @host localhost:3001
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	commands.Execute()
}
