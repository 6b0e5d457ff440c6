package chain

// 内置合约名称，config 中 chain.contracts 的键
const (
	ContractTalentLayerService    = "talent_layer_service"
	ContractTalentLayerPlatformID = "talent_layer_platform_id"
)

// builtinABIs 只包含索引器消费的事件
var builtinABIs = map[string]string{
	ContractTalentLayerService:    talentLayerServiceABI,
	ContractTalentLayerPlatformID: talentLayerPlatformIDABI,
}

// ServiceCreated 的第二个定义是升级测试期间的重载，abi.JSON 会将其命名为 ServiceCreated0
const talentLayerServiceABI = `[
  {"type":"event","name":"ServiceCreated","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":false},
    {"name":"ownerId","type":"uint256","indexed":false},
    {"name":"platformId","type":"uint256","indexed":false},
    {"name":"dataUri","type":"string","indexed":false}]},
  {"type":"event","name":"ServiceCreated","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":false},
    {"name":"ownerId","type":"uint256","indexed":false},
    {"name":"platformId","type":"uint256","indexed":false},
    {"name":"dataUri","type":"string","indexed":false},
    {"name":"rateToken","type":"address","indexed":false},
    {"name":"referralAmount","type":"uint256","indexed":false}]},
  {"type":"event","name":"ServiceCreatedWithReferral","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":false},
    {"name":"ownerId","type":"uint256","indexed":false},
    {"name":"platformId","type":"uint256","indexed":false},
    {"name":"dataUri","type":"string","indexed":false},
    {"name":"rateToken","type":"address","indexed":false},
    {"name":"referralAmount","type":"uint256","indexed":false}]},
  {"type":"event","name":"ServiceDetailedUpdated","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":true},
    {"name":"dataUri","type":"string","indexed":false}]},
  {"type":"event","name":"ServiceUpdated","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":false},
    {"name":"referralAmount","type":"uint256","indexed":false},
    {"name":"dataUri","type":"string","indexed":false}]},
  {"type":"event","name":"ProposalCreated","anonymous":false,"inputs":[
    {"name":"serviceId","type":"uint256","indexed":false},
    {"name":"ownerId","type":"uint256","indexed":false},
    {"name":"dataUri","type":"string","indexed":false},
    {"name":"status","type":"uint8","indexed":false},
    {"name":"rateToken","type":"address","indexed":false},
    {"name":"rateAmount","type":"uint256","indexed":false},
    {"name":"platformId","type":"uint256","indexed":false},
    {"name":"expirationDate","type":"uint256","indexed":false}]},
  {"type":"event","name":"ProposalUpdated","anonymous":false,"inputs":[
    {"name":"serviceId","type":"uint256","indexed":false},
    {"name":"ownerId","type":"uint256","indexed":false},
    {"name":"dataUri","type":"string","indexed":false},
    {"name":"rateToken","type":"address","indexed":false},
    {"name":"rateAmount","type":"uint256","indexed":false},
    {"name":"expirationDate","type":"uint256","indexed":false}]},
  {"type":"event","name":"ProposalCreatedWithReferrer","anonymous":false,"inputs":[
    {"name":"serviceId","type":"uint256","indexed":false},
    {"name":"ownerId","type":"uint256","indexed":false},
    {"name":"dataUri","type":"string","indexed":false},
    {"name":"status","type":"uint8","indexed":false},
    {"name":"amount","type":"uint256","indexed":false},
    {"name":"platformId","type":"uint256","indexed":false},
    {"name":"expirationDate","type":"uint256","indexed":false},
    {"name":"referrerId","type":"uint256","indexed":false}]},
  {"type":"event","name":"ProposalUpdatedWithReferrer","anonymous":false,"inputs":[
    {"name":"serviceId","type":"uint256","indexed":false},
    {"name":"ownerId","type":"uint256","indexed":false},
    {"name":"dataUri","type":"string","indexed":false},
    {"name":"amount","type":"uint256","indexed":false},
    {"name":"expirationDate","type":"uint256","indexed":false},
    {"name":"referrerId","type":"uint256","indexed":false}]},
  {"type":"event","name":"AllowedTokenListUpdated","anonymous":false,"inputs":[
    {"name":"tokenAddress","type":"address","indexed":false},
    {"name":"isWhitelisted","type":"bool","indexed":false},
    {"name":"minimumTransactionAmount","type":"uint256","indexed":false}]},
  {"type":"event","name":"MinCompletionPercentageUpdated","anonymous":false,"inputs":[
    {"name":"minCompletionPercentage","type":"uint256","indexed":false}]}
]`

const talentLayerPlatformIDABI = `[
  {"type":"event","name":"Mint","anonymous":false,"inputs":[
    {"name":"platformOwnerAddress","type":"address","indexed":true},
    {"name":"platformId","type":"uint256","indexed":false},
    {"name":"platformName","type":"string","indexed":false},
    {"name":"fee","type":"uint256","indexed":false}]}
]`
